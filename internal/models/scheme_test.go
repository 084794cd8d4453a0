package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riceScheme() SchemeRecord {
	s := DefaultSchemeRecord()
	s.Name = "TN Rice Support"
	s.States = []string{"All"}
	s.Crops = []string{"Rice"}
	s.MinLand = 0
	s.MaxLand = 2
	s.Season = SeasonKharif
	return s
}

func TestIsApplicableFor(t *testing.T) {
	tests := []struct {
		name     string
		scheme   SchemeRecord
		state    string
		crop     string
		land     float64
		season   string
		expected bool
	}{
		{
			name:     "all four rules hold",
			scheme:   riceScheme(),
			state:    "Punjab",
			crop:     "Rice",
			land:     1.5,
			season:   SeasonKharif,
			expected: true,
		},
		{
			name:     "crop mismatch fails the conjunction",
			scheme:   riceScheme(),
			state:    "Punjab",
			crop:     "Wheat",
			land:     1.5,
			season:   SeasonKharif,
			expected: false,
		},
		{
			name: "state mismatch",
			scheme: func() SchemeRecord {
				s := riceScheme()
				s.States = []string{"Tamil Nadu", "Kerala"}
				return s
			}(),
			state:    "Punjab",
			crop:     "Rice",
			land:     1.5,
			season:   SeasonKharif,
			expected: false,
		},
		{
			name: "All India sentinel matches any state",
			scheme: func() SchemeRecord {
				s := riceScheme()
				s.States = []string{"All India"}
				return s
			}(),
			state:    "Punjab",
			crop:     "Rice",
			land:     1.5,
			season:   SeasonKharif,
			expected: true,
		},
		{
			name:     "land above max",
			scheme:   riceScheme(),
			state:    "Punjab",
			crop:     "Rice",
			land:     2.5,
			season:   SeasonKharif,
			expected: false,
		},
		{
			name:     "season mismatch",
			scheme:   riceScheme(),
			state:    "Punjab",
			crop:     "Rice",
			land:     1.5,
			season:   SeasonRabi,
			expected: false,
		},
		{
			name:     "candidate season All matches any scheme season",
			scheme:   riceScheme(),
			state:    "Punjab",
			crop:     "Rice",
			land:     1.5,
			season:   SeasonAll,
			expected: true,
		},
		{
			name: "empty scheme season means no restriction",
			scheme: func() SchemeRecord {
				s := riceScheme()
				s.Season = ""
				return s
			}(),
			state:    "Punjab",
			crop:     "Rice",
			land:     1.5,
			season:   SeasonRabi,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scheme.IsApplicableFor(tt.state, tt.crop, tt.land, tt.season)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLandBoundsAreInclusive(t *testing.T) {
	s := DefaultSchemeRecord()
	s.MinLand = 1.0
	s.MaxLand = 5.0

	assert.True(t, s.IsApplicableFor("Punjab", "Wheat", 1.0, SeasonAll))
	assert.True(t, s.IsApplicableFor("Punjab", "Wheat", 5.0, SeasonAll))
	assert.False(t, s.IsApplicableFor("Punjab", "Wheat", 0.999, SeasonAll))
	assert.False(t, s.IsApplicableFor("Punjab", "Wheat", 5.001, SeasonAll))
}

func TestDecodeEmptyObjectYieldsDefaults(t *testing.T) {
	var s SchemeRecord
	err := json.Unmarshal([]byte(`{}`), &s)
	require.NoError(t, err)

	assert.Equal(t, "", s.Name)
	assert.Equal(t, "", s.Type)
	assert.Equal(t, "", s.Benefit)
	assert.Equal(t, float64(0), s.BenefitAmount)
	assert.Equal(t, map[string]string{}, s.Description)
	assert.Equal(t, []string{}, s.DocumentsRequired)
	assert.Equal(t, "", s.OfficialLink)
	assert.Equal(t, []string{"All"}, s.States)
	assert.Equal(t, []string{"All"}, s.Crops)
	assert.Equal(t, float64(0), s.MinLand)
	assert.Equal(t, float64(100), s.MaxLand)
	assert.Equal(t, SeasonAll, s.Season)
}

func TestDecodeMalformedFieldsKeepDefaults(t *testing.T) {
	payload := `{
		"scheme_name": "PM-KISAN",
		"min_land": "not a number",
		"states": 42,
		"documents_required": null,
		"description": "not a map"
	}`

	var s SchemeRecord
	err := json.Unmarshal([]byte(payload), &s)
	require.NoError(t, err)

	assert.Equal(t, "PM-KISAN", s.Name)
	assert.Equal(t, float64(0), s.MinLand)
	assert.Equal(t, []string{"All"}, s.States)
	assert.Equal(t, []string{}, s.DocumentsRequired)
	assert.Equal(t, map[string]string{}, s.Description)
}

func TestDecodeNonObjectFails(t *testing.T) {
	var s SchemeRecord
	err := json.Unmarshal([]byte(`"just a string"`), &s)
	assert.Error(t, err)
}

func TestSchemeRoundTrip(t *testing.T) {
	payload := `{
		"scheme_name": "Pradhan Mantri Kisan Samman Nidhi (PM-KISAN)",
		"type": "Income Support",
		"benefit": "₹6,000 per year",
		"benefit_amount": 6000,
		"states": ["All"],
		"crops": ["All"],
		"min_land": 0,
		"max_land": 100,
		"season": "All",
		"documents_required": ["Aadhaar Card", "Land Ownership Records"],
		"official_link": "https://pmkisan.gov.in",
		"description": {"en": "Income support of ₹6,000 per year.", "hi": "आय सहायता"}
	}`

	var original SchemeRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &original))

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded SchemeRecord
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, original, decoded)
}

func TestDescriptionIn(t *testing.T) {
	s := DefaultSchemeRecord()
	s.Description = map[string]string{
		"en": "english text",
		"hi": "hindi text",
	}

	assert.Equal(t, "hindi text", s.DescriptionIn("hi"))
	assert.Equal(t, "english text", s.DescriptionIn("fr"), "missing language falls back to English")

	s.Description = map[string]string{"ta": "tamil text", "ml": "malayalam text"}
	assert.Equal(t, "malayalam text", s.DescriptionIn("fr"), "no English falls back to first present language")

	s.Description = map[string]string{}
	assert.Equal(t, "", s.DescriptionIn("fr"))
}

func TestParseBenefitAmount(t *testing.T) {
	tests := []struct {
		benefit  string
		expected float64
	}{
		{"₹6,000 per year", 6000},
		{"Up to ₹2,00,000", 200000},
		{"Comprehensive crop insurance", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.benefit, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseBenefitAmount(tt.benefit))
		})
	}
}

func TestSortByBenefit(t *testing.T) {
	a := DefaultSchemeRecord()
	a.Name = "small"
	a.BenefitAmount = 6000

	b := DefaultSchemeRecord()
	b.Name = "large"
	b.BenefitAmount = 200000

	c := DefaultSchemeRecord()
	c.Name = "derived"
	c.Benefit = "₹50,000 subsidy"

	schemes := []SchemeRecord{a, c, b}
	SortByBenefit(schemes)

	assert.Equal(t, "large", schemes[0].Name)
	assert.Equal(t, "derived", schemes[1].Name)
	assert.Equal(t, "small", schemes[2].Name)
}
