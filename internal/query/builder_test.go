package query_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oncogenie/oncogenie/backend/internal/models"
	"github.com/oncogenie/oncogenie/backend/internal/query"
)

func baseProfile() models.HealthProfile {
	return models.HealthProfile{
		Age:                30,
		BMI:                22,
		Sex:                models.SexOther,
		SmokingStatus:      models.SmokingNever,
		AlcoholConsumption: models.AlcoholNone,
		DietaryPattern:     models.DietOther,
	}
}

func TestBuildNeverEmpty(t *testing.T) {
	// Nothing fires for this profile; the generic fallback must.
	terms := query.Build(baseProfile())
	require.Equal(t, []string{"lifestyle cancer risk prevention epidemiology"}, terms)
}

func TestBuildDeterministicAndDeduplicated(t *testing.T) {
	p := baseProfile()
	p.Age = 55
	p.Sex = models.SexMale
	p.SmokingStatus = models.SmokingCurrent
	p.FamilyHistory = []string{"colon cancer", "Colon Cancer"}

	first := query.Build(p)
	second := query.Build(p)
	require.Equal(t, first, second)

	seen := make(map[string]struct{})
	for _, term := range first {
		_, dup := seen[term]
		require.False(t, dup, "duplicate term %q", term)
		seen[term] = struct{}{}
	}
}

func TestBuildObesityWithWesternDiet(t *testing.T) {
	p := baseProfile()
	p.BMI = 32
	p.DietaryPattern = models.DietWestern

	joined := strings.Join(query.Build(p), " ")
	require.Contains(t, joined, "endometrial")
	require.Contains(t, joined, "breast")
	require.Contains(t, joined, "colorectal")
	require.Contains(t, joined, "western diet")
}

func TestBuildCurrentSmoker(t *testing.T) {
	p := baseProfile()
	p.SmokingStatus = models.SmokingCurrent

	joined := strings.Join(query.Build(p), " ")
	require.Contains(t, joined, "lung cancer")
}

func TestBuildRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.HealthProfile)
		want   string
	}{
		{
			name:   "overweight but not obese",
			mutate: func(p *models.HealthProfile) { p.BMI = 27 },
			want:   "overweight cancer risk metabolic syndrome",
		},
		{
			name:   "former smoker",
			mutate: func(p *models.HealthProfile) { p.SmokingStatus = models.SmokingFormer },
			want:   "former smoker cancer risk reduction",
		},
		{
			name:   "heavy alcohol",
			mutate: func(p *models.HealthProfile) { p.AlcoholConsumption = models.AlcoholHeavy },
			want:   "alcohol consumption cancer risk liver colorectal",
		},
		{
			name:   "plant based diet",
			mutate: func(p *models.HealthProfile) { p.DietaryPattern = models.DietVegan },
			want:   "plant based diet cancer prevention",
		},
		{
			name: "prostate screening age",
			mutate: func(p *models.HealthProfile) {
				p.Age = 50
				p.Sex = models.SexMale
			},
			want: "prostate cancer age risk screening men",
		},
		{
			name: "breast screening age",
			mutate: func(p *models.HealthProfile) {
				p.Age = 41
				p.Sex = models.SexFemale
			},
			want: "breast cancer age risk screening women mammography",
		},
		{
			name:   "colorectal screening age",
			mutate: func(p *models.HealthProfile) { p.Age = 45 },
			want:   "colorectal cancer age risk colonoscopy screening",
		},
		{
			name:   "family history",
			mutate: func(p *models.HealthProfile) { p.FamilyHistory = []string{"Melanoma"} },
			want:   "hereditary melanoma cancer genetic risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseProfile()
			tt.mutate(&p)
			require.Contains(t, query.Build(p), tt.want)
		})
	}
}

func TestBuildOrderBiometricBeforeFamilyHistory(t *testing.T) {
	p := baseProfile()
	p.BMI = 33
	p.FamilyHistory = []string{"leukemia"}

	terms := query.Build(p)
	require.True(t, len(terms) >= 2)
	require.Contains(t, terms[0], "obesity")
	require.Equal(t, "hereditary leukemia cancer genetic risk", terms[len(terms)-1])
}
