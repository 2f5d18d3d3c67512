package models

import "time"

// RiskLevel is ordinal, not numeric: low < moderate < high.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Known reports whether the level is one of the closed set. Model
// output is untrusted, so this is checked after parsing rather than
// during decode.
func (r RiskLevel) Known() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	}
	return false
}

// LiteratureAbstract is one retrieved open-access record. Title and
// URL are always present; records missing either are dropped during
// extraction. Abstract, DOI and Year are best-effort.
type LiteratureAbstract struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	DOI      string `json:"doi,omitempty"`
	URL      string `json:"url"`
	Year     int    `json:"year,omitempty"`
}

// Citation links an insight back to a retrieved abstract.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RiskInsight is one correlation surfaced by the model. Citations is
// non-empty on every insight that reaches the caller; insights that
// lose all citations to grounding checks are suppressed upstream.
type RiskInsight struct {
	CancerType     string     `json:"cancerType"`
	RiskLevel      RiskLevel  `json:"riskLevel"`
	Explanation    string     `json:"explanation"`
	Citations      []Citation `json:"citations"`
	Recommendation string     `json:"recommendation"`
}

// AnalysisResult is the full response for one request. Insights may be
// empty when the model finds no correlations; SearchedAbstracts lists
// every abstract the synthesis consulted, for attribution.
type AnalysisResult struct {
	ID                string               `json:"id"`
	Insights          []RiskInsight        `json:"insights"`
	Disclaimer        string               `json:"disclaimer"`
	SearchedAbstracts []LiteratureAbstract `json:"searchedAbstracts"`
	Timestamp         time.Time            `json:"timestamp"`
}
