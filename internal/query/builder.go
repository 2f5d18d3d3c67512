// Package query turns a validated health profile into an ordered list
// of literature search terms. It is pure: no I/O, no shared state.
package query

import (
	"fmt"
	"strings"

	"github.com/oncogenie/oncogenie/backend/internal/models"
)

// BMI thresholds used by the biometric rules (WHO cut-offs).
const (
	bmiOverweight = 25.0
	bmiObese      = 30.0
)

// fallbackTerm keeps the query non-empty when no specific rule fires.
const fallbackTerm = "lifestyle cancer risk prevention epidemiology"

// rule associates a profile predicate with the search term it
// contributes. Rules are data so new risk terms can be added without
// touching control flow.
type rule struct {
	name string
	when func(p models.HealthProfile) bool
	term string
}

// rules is evaluated in order: biometric first, then habits, then
// demographic screening. Family history is appended separately since
// its terms depend on the condition names.
var rules = []rule{
	{
		name: "obese",
		when: func(p models.HealthProfile) bool { return p.BMI >= bmiObese },
		term: "obesity BMI cancer risk endometrial breast colorectal",
	},
	{
		name: "overweight",
		when: func(p models.HealthProfile) bool { return p.BMI >= bmiOverweight && p.BMI < bmiObese },
		term: "overweight cancer risk metabolic syndrome",
	},
	{
		name: "current smoker",
		when: func(p models.HealthProfile) bool { return p.SmokingStatus == models.SmokingCurrent },
		term: "smoking lung cancer risk factors epidemiology",
	},
	{
		name: "former smoker",
		when: func(p models.HealthProfile) bool { return p.SmokingStatus == models.SmokingFormer },
		term: "former smoker cancer risk reduction",
	},
	{
		name: "alcohol",
		when: func(p models.HealthProfile) bool {
			return p.AlcoholConsumption == models.AlcoholModerate || p.AlcoholConsumption == models.AlcoholHeavy
		},
		term: "alcohol consumption cancer risk liver colorectal",
	},
	{
		name: "western diet",
		when: func(p models.HealthProfile) bool { return p.DietaryPattern == models.DietWestern },
		term: "western diet processed food cancer risk",
	},
	{
		name: "plant-forward diet",
		when: func(p models.HealthProfile) bool {
			switch p.DietaryPattern {
			case models.DietMediterranean, models.DietVegetarian, models.DietVegan:
				return true
			}
			return false
		},
		term: "plant based diet cancer prevention",
	},
	{
		name: "prostate screening age",
		when: func(p models.HealthProfile) bool { return p.Age >= 50 && p.Sex == models.SexMale },
		term: "prostate cancer age risk screening men",
	},
	{
		name: "breast screening age",
		when: func(p models.HealthProfile) bool { return p.Age >= 40 && p.Sex == models.SexFemale },
		term: "breast cancer age risk screening women mammography",
	},
	{
		name: "colorectal screening age",
		when: func(p models.HealthProfile) bool { return p.Age >= 45 },
		term: "colorectal cancer age risk colonoscopy screening",
	},
}

// Build derives search terms from the profile. The result is
// deterministic, deduplicated preserving first occurrence, and never
// empty: a generic prevention term is emitted when nothing matches.
func Build(p models.HealthProfile) []string {
	var terms []string
	for _, r := range rules {
		if r.when(p) {
			terms = append(terms, r.term)
		}
	}

	for _, condition := range p.FamilyHistory {
		condition = strings.ToLower(strings.TrimSpace(condition))
		if condition == "" {
			continue
		}
		terms = append(terms, fmt.Sprintf("hereditary %s cancer genetic risk", condition))
	}

	if len(terms) == 0 {
		return []string{fallbackTerm}
	}

	// Remove duplicates while preserving order
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, term := range terms {
		if _, ok := seen[term]; !ok {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}
