package synthesis

import (
	"fmt"
	"strings"

	"github.com/oncogenie/oncogenie/backend/internal/models"
)

// systemPrompt pins the model to non-diagnostic, citation-grounded,
// schema-only output. The constraints are enforced again after
// parsing; the prompt is the first line of defense, not the last.
const systemPrompt = `You are a clinical informatics assistant. Your role is to analyze
user health data alongside peer-reviewed research abstracts and identify potential cancer risk
correlations.

STRICT RULES:
1. You MUST NOT provide a definitive medical diagnosis under any circumstances.
2. Always frame insights as "research suggests a potential correlation" or "evidence indicates
   an elevated association" - never as certainties.
3. Every insight MUST cite at least one source abstract by its DOI or URL.
4. Recommend consulting a licensed oncologist or primary care physician for all concerns.
5. Maintain clinical objectivity - do not minimize or exaggerate risk factors.
6. Structure your response as valid JSON only, no markdown or prose outside the JSON.

OUTPUT FORMAT (strict JSON):
{
  "insights": [
    {
      "cancerType": "string",
      "riskLevel": "low|moderate|high",
      "explanation": "string - evidence-based, non-diagnostic explanation",
      "citations": [{"title": "string", "url": "string"}],
      "recommendation": "string - actionable, physician-referral-oriented"
    }
  ],
  "disclaimer": "string - standard medical disclaimer"
}`

// buildUserMessage serializes the profile and numbers each abstract as
// a SOURCE block so citations can only point at supplied URLs.
func buildUserMessage(p models.HealthProfile, abstracts []models.LiteratureAbstract) string {
	var sources strings.Builder
	for i, a := range abstracts {
		if i > 0 {
			sources.WriteString("\n\n")
		}
		fmt.Fprintf(&sources, "SOURCE [%d]: %s\nURL: %s\n\nABSTRACT: %s", i+1, a.Title, a.URL, a.Abstract)
	}

	history := "None reported"
	if len(p.FamilyHistory) > 0 {
		history = strings.Join(p.FamilyHistory, ", ")
	}

	return fmt.Sprintf(`PATIENT PROFILE:
- Age: %d
- Sex: %s
- BMI: %.1f
- Smoking Status: %s
- Alcohol Consumption: %s
- Dietary Pattern: %s
- Family History of Conditions: %s

RESEARCH ABSTRACTS:
%s

Based on the patient profile and the provided research abstracts, generate a comprehensive
cancer risk correlation analysis. Cite only the sources provided above.`,
		p.Age, p.Sex, p.BMI, p.SmokingStatus, p.AlcoholConsumption, p.DietaryPattern, history, sources.String())
}
