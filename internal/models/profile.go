package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Age and BMI bounds considered plausible for an adult profile.
// Values outside these ranges are rejected, never clamped.
const (
	MinAge = 18
	MaxAge = 100
	MinBMI = 10.0
	MaxBMI = 100.0
)

// Sex is the biological-sex category supplied by the caller.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// SmokingStatus describes the profile's smoking history.
type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

// AlcoholConsumption describes habitual alcohol intake.
type AlcoholConsumption string

const (
	AlcoholNone     AlcoholConsumption = "none"
	AlcoholLight    AlcoholConsumption = "light"
	AlcoholModerate AlcoholConsumption = "moderate"
	AlcoholHeavy    AlcoholConsumption = "heavy"
)

// DietaryPattern describes the dominant dietary pattern.
type DietaryPattern string

const (
	DietMediterranean DietaryPattern = "mediterranean"
	DietWestern       DietaryPattern = "western"
	DietVegetarian    DietaryPattern = "vegetarian"
	DietVegan         DietaryPattern = "vegan"
	DietOther         DietaryPattern = "other"
)

func (s *Sex) UnmarshalJSON(data []byte) error {
	v, err := decodeCategory(data, "sex",
		string(SexMale), string(SexFemale), string(SexOther))
	if err != nil {
		return err
	}
	*s = Sex(v)
	return nil
}

func (s *SmokingStatus) UnmarshalJSON(data []byte) error {
	v, err := decodeCategory(data, "smokingStatus",
		string(SmokingNever), string(SmokingFormer), string(SmokingCurrent))
	if err != nil {
		return err
	}
	*s = SmokingStatus(v)
	return nil
}

func (a *AlcoholConsumption) UnmarshalJSON(data []byte) error {
	v, err := decodeCategory(data, "alcoholConsumption",
		string(AlcoholNone), string(AlcoholLight), string(AlcoholModerate), string(AlcoholHeavy))
	if err != nil {
		return err
	}
	*a = AlcoholConsumption(v)
	return nil
}

func (d *DietaryPattern) UnmarshalJSON(data []byte) error {
	v, err := decodeCategory(data, "dietaryPattern",
		string(DietMediterranean), string(DietWestern), string(DietVegetarian), string(DietVegan), string(DietOther))
	if err != nil {
		return err
	}
	*d = DietaryPattern(v)
	return nil
}

// decodeCategory enforces closed categorical fields at the boundary so
// free text never reaches the pipeline.
func decodeCategory(data []byte, field string, allowed ...string) (string, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("%s must be a string", field)
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, v := range allowed {
		if raw == v {
			return raw, nil
		}
	}
	return "", fmt.Errorf("%s: unknown value %q", field, raw)
}

// HealthProfile is the caller-supplied input. It is immutable once
// validated; nothing in the pipeline mutates or retains it.
type HealthProfile struct {
	Age                int                `json:"age"`
	BMI                float64            `json:"bmi"`
	Sex                Sex                `json:"sex"`
	SmokingStatus      SmokingStatus      `json:"smokingStatus"`
	AlcoholConsumption AlcoholConsumption `json:"alcoholConsumption"`
	DietaryPattern     DietaryPattern     `json:"dietaryPattern"`
	FamilyHistory      []string           `json:"familyHistory"`
}

// Validate checks numeric ranges and required categorical fields.
// Blank family-history entries are discarded rather than rejected.
func (p *HealthProfile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("age %d outside plausible range %d-%d", p.Age, MinAge, MaxAge)
	}
	if math.IsNaN(p.BMI) || math.IsInf(p.BMI, 0) {
		return fmt.Errorf("bmi must be a finite number")
	}
	if p.BMI < MinBMI || p.BMI > MaxBMI {
		return fmt.Errorf("bmi %.1f outside plausible range %.0f-%.0f", p.BMI, MinBMI, MaxBMI)
	}
	if p.Sex == "" {
		return fmt.Errorf("sex is required")
	}
	if p.SmokingStatus == "" {
		return fmt.Errorf("smokingStatus is required")
	}
	if p.AlcoholConsumption == "" {
		return fmt.Errorf("alcoholConsumption is required")
	}
	if p.DietaryPattern == "" {
		return fmt.Errorf("dietaryPattern is required")
	}

	kept := p.FamilyHistory[:0]
	for _, c := range p.FamilyHistory {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	p.FamilyHistory = kept

	return nil
}
