package models

import "errors"

// Validation errors for farmer input
var (
	ErrStateRequired   = errors.New("state is required")
	ErrUnknownState    = errors.New("state is not a recognised state or union territory")
	ErrCropRequired    = errors.New("crop is required")
	ErrInvalidLandSize = errors.New("land_size must be greater than zero")
	ErrInvalidSeason   = errors.New("season must be Kharif, Rabi, Zaid or All")
)

// FarmerInput carries the query parameters for an eligibility lookup.
// It is built once from caller input, validated, and never mutated.
type FarmerInput struct {
	State    string  `json:"state"`
	Crop     string  `json:"crop"`
	LandSize float64 `json:"land_size"`
	Season   string  `json:"season"`
}

// indianStates is the fixed list of administrative regions accepted in
// farmer input. Scheme records themselves are not validated against it —
// the backend owns that data.
var indianStates = map[string]bool{
	"Andhra Pradesh": true, "Arunachal Pradesh": true, "Assam": true,
	"Bihar": true, "Chhattisgarh": true, "Goa": true, "Gujarat": true,
	"Haryana": true, "Himachal Pradesh": true, "Jharkhand": true,
	"Karnataka": true, "Kerala": true, "Madhya Pradesh": true,
	"Maharashtra": true, "Manipur": true, "Meghalaya": true,
	"Mizoram": true, "Nagaland": true, "Odisha": true, "Punjab": true,
	"Rajasthan": true, "Sikkim": true, "Tamil Nadu": true,
	"Telangana": true, "Tripura": true, "Uttar Pradesh": true,
	"Uttarakhand": true, "West Bengal": true,
	"Andaman and Nicobar Islands": true, "Chandigarh": true,
	"Dadra and Nagar Haveli and Daman and Diu": true, "Delhi": true,
	"Jammu and Kashmir": true, "Ladakh": true, "Lakshadweep": true,
	"Puducherry": true,
}

// IsKnownState reports whether the given name is a recognised Indian state
// or union territory.
func IsKnownState(state string) bool {
	return indianStates[state]
}

var validSeasons = map[string]bool{
	SeasonKharif: true,
	SeasonRabi:   true,
	SeasonZaid:   true,
	SeasonAll:    true,
}

// Validate checks that every field is populated and within range. All four
// fields are required before the input may be submitted.
func (f FarmerInput) Validate() error {
	if f.State == "" {
		return ErrStateRequired
	}
	if !IsKnownState(f.State) {
		return ErrUnknownState
	}
	if f.Crop == "" {
		return ErrCropRequired
	}
	if f.LandSize <= 0 {
		return ErrInvalidLandSize
	}
	if !validSeasons[f.Season] {
		return ErrInvalidSeason
	}
	return nil
}
