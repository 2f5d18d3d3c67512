package synthesis

import (
	"encoding/json"
	"strings"

	"github.com/oncogenie/oncogenie/backend/internal/models"
)

// modelResponse is the schema the model is instructed to emit. The
// disclaimer is parsed but discarded; the service injects its own.
type modelResponse struct {
	Insights   []models.RiskInsight `json:"insights"`
	Disclaimer string               `json:"disclaimer"`
}

// decodeModelOutput strips known non-schema wrapping and unmarshals.
// The cleaned text is returned on both paths so callers can see what
// was actually handed to the parser.
func decodeModelOutput(raw string) (modelResponse, string, error) {
	cleaned := stripFences(raw)

	var parsed modelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return modelResponse{}, cleaned, err
	}
	return parsed, cleaned, nil
}

// stripFences removes enclosing markdown code fences without touching
// the payload itself.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
