package models

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Season values recognised by the matching engine.
const (
	SeasonKharif = "Kharif"
	SeasonRabi   = "Rabi"
	SeasonZaid   = "Zaid"
	SeasonAll    = "All"
)

// MatchAll is the sentinel used in a scheme's states/crops lists to mean
// "no restriction". The backend seeds some schemes with the longer
// variants, so the predicate accepts those too.
const MatchAll = "All"

var allSentinels = map[string]bool{
	"All":       true,
	"All India": true,
	"All Crops": true,
}

// SchemeRecord is one government agriculture scheme together with its
// eligibility constraints. Field names mirror the backend wire format so
// the same encoding is used for both the network and the cache payload.
type SchemeRecord struct {
	Name              string            `json:"scheme_name"`
	Type              string            `json:"type"`
	Benefit           string            `json:"benefit"`
	BenefitAmount     float64           `json:"benefit_amount"`
	Description       map[string]string `json:"description"`
	DocumentsRequired []string          `json:"documents_required"`
	OfficialLink      string            `json:"official_link"`
	States            []string          `json:"states"`
	Crops             []string          `json:"crops"`
	MinLand           float64           `json:"min_land"`
	MaxLand           float64           `json:"max_land"`
	Season            string            `json:"season"`
}

// DefaultSchemeRecord returns a record with every field at its documented
// default. Partially-populated backend responses degrade to these values
// instead of failing to parse.
func DefaultSchemeRecord() SchemeRecord {
	return SchemeRecord{
		Description:       map[string]string{},
		DocumentsRequired: []string{},
		States:            []string{MatchAll},
		Crops:             []string{MatchAll},
		MinLand:           0,
		MaxLand:           100,
		Season:            SeasonAll,
	}
}

// UnmarshalJSON decodes a scheme object field by field. A malformed or
// missing individual field keeps its default; only a payload that is not a
// JSON object at all is reported as an error.
func (s *SchemeRecord) UnmarshalJSON(data []byte) error {
	*s = DefaultSchemeRecord()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decodeString(raw["scheme_name"], &s.Name)
	decodeString(raw["type"], &s.Type)
	decodeString(raw["benefit"], &s.Benefit)
	decodeFloat(raw["benefit_amount"], &s.BenefitAmount)
	decodeString(raw["official_link"], &s.OfficialLink)
	decodeFloat(raw["min_land"], &s.MinLand)
	decodeFloat(raw["max_land"], &s.MaxLand)
	decodeString(raw["season"], &s.Season)
	decodeStringSlice(raw["documents_required"], &s.DocumentsRequired)
	decodeStringSlice(raw["states"], &s.States)
	decodeStringSlice(raw["crops"], &s.Crops)

	if msg, ok := raw["description"]; ok {
		var desc map[string]string
		if err := json.Unmarshal(msg, &desc); err == nil && desc != nil {
			s.Description = desc
		}
	}

	return nil
}

func decodeString(msg json.RawMessage, dst *string) {
	if msg == nil {
		return
	}
	var v string
	if err := json.Unmarshal(msg, &v); err == nil {
		*dst = v
	}
}

func decodeFloat(msg json.RawMessage, dst *float64) {
	if msg == nil {
		return
	}
	var v float64
	if err := json.Unmarshal(msg, &v); err == nil {
		*dst = v
	}
}

func decodeStringSlice(msg json.RawMessage, dst *[]string) {
	if msg == nil {
		return
	}
	var v []string
	if err := json.Unmarshal(msg, &v); err == nil && v != nil {
		*dst = v
	}
}

// IsApplicableFor reports whether the scheme applies to the given farmer
// profile. All four rules must hold:
//
//  1. state is in the scheme's state list, or the list carries "All"
//  2. crop is in the scheme's crop list, or the list carries "All"
//  3. min_land <= landSize <= max_land (inclusive bounds)
//  4. season matches exactly, or the scheme has no season restriction,
//     or the candidate season is "All"
//
// The server performs the same filtering remotely; this predicate lets a
// caller re-filter a cached batch offline without a round trip.
func (s SchemeRecord) IsApplicableFor(state, crop string, landSize float64, season string) bool {
	return s.stateMatches(state) &&
		s.cropMatches(crop) &&
		s.MinLand <= landSize && landSize <= s.MaxLand &&
		s.seasonMatches(season)
}

func (s SchemeRecord) stateMatches(state string) bool {
	return listMatches(s.States, state)
}

func (s SchemeRecord) cropMatches(crop string) bool {
	return listMatches(s.Crops, crop)
}

func (s SchemeRecord) seasonMatches(season string) bool {
	if s.Season == "" || s.Season == SeasonAll || season == SeasonAll {
		return true
	}
	return s.Season == season
}

func listMatches(list []string, candidate string) bool {
	for _, v := range list {
		if v == candidate || allSentinels[v] {
			return true
		}
	}
	return false
}

// DescriptionIn returns the scheme description for the given language
// code, falling back to English, then to the first available language in
// sorted order, then to the empty string.
func (s SchemeRecord) DescriptionIn(lang string) string {
	if v, ok := s.Description[lang]; ok {
		return v
	}
	if v, ok := s.Description["en"]; ok {
		return v
	}
	if len(s.Description) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s.Description))
	for k := range s.Description {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return s.Description[keys[0]]
}

// EffectiveBenefitAmount returns the numeric benefit for sorting. When the
// backend did not populate benefit_amount, the amount is recovered from
// the human-readable benefit string.
func (s SchemeRecord) EffectiveBenefitAmount() float64 {
	if s.BenefitAmount > 0 {
		return s.BenefitAmount
	}
	return ParseBenefitAmount(s.Benefit)
}

var benefitNumberRe = regexp.MustCompile(`[\d,]+`)

// ParseBenefitAmount extracts a numeric value from a benefit string, e.g.
// "₹6,000 per year" → 6000. Strings with no number yield 0.
func ParseBenefitAmount(benefit string) float64 {
	m := benefitNumberRe.FindString(benefit)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// SortByBenefit orders schemes by descending benefit amount, matching the
// backend's result ordering. Ties keep their relative order.
func SortByBenefit(schemes []SchemeRecord) {
	sort.SliceStable(schemes, func(i, j int) bool {
		return schemes[i].EffectiveBenefitAmount() > schemes[j].EffectiveBenefitAmount()
	})
}
