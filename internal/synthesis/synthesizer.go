// Package synthesis turns a profile and a set of retrieved abstracts
// into a validated, citation-grounded analysis via one inference call.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oncogenie/oncogenie/backend/internal/models"
)

var (
	// ErrUnavailable means the inference service failed or timed out.
	ErrUnavailable = errors.New("inference service unavailable")

	// ErrMalformedOutput means the model's text could not be coerced
	// into the result schema even after tolerant cleanup.
	ErrMalformedOutput = errors.New("model output failed schema validation")
)

// Disclaimer is service-owned and overrides whatever the model emits.
const Disclaimer = "This analysis is generated from published research abstracts and is not a " +
	"medical diagnosis. Risk correlations are statistical observations, not predictions about " +
	"any individual. Always consult a licensed physician or oncologist about your personal " +
	"cancer risk and screening schedule."

// Synthesizer is stateless; every call builds fresh prompt and result
// values and nothing is remembered between calls.
type Synthesizer struct {
	model Model
	log   *slog.Logger
}

func New(model Model, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synthesizer{model: model, log: logger}
}

// Synthesize performs exactly one inference call and validates the
// response. Parse failures are terminal: there is no correction loop,
// since a second guess is no better grounded than the first.
func (s *Synthesizer) Synthesize(ctx context.Context, profile models.HealthProfile, abstracts []models.LiteratureAbstract) (*models.AnalysisResult, error) {
	raw, err := s.model.GenerateJSON(ctx, systemPrompt, buildUserMessage(profile, abstracts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	parsed, _, err := decodeModelOutput(raw)
	if err != nil {
		// Keep the rejected text; it is the only evidence of what the
		// model actually produced.
		s.log.Error("unparsable model output",
			slog.Any("err", err),
			slog.String("raw", truncate(raw, 2000)),
		)
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	insights := s.groundInsights(parsed.Insights, abstracts)

	return &models.AnalysisResult{
		ID:                uuid.NewString(),
		Insights:          insights,
		Disclaimer:        Disclaimer,
		SearchedAbstracts: abstracts,
		Timestamp:         time.Now().UTC(),
	}, nil
}

// groundInsights enforces provenance: every surviving citation URL
// must match a supplied abstract's URL or DOI, and every surviving
// insight must keep at least one citation. Fabricated
// citations are dropped individually; an insight left without
// provenance is dropped whole.
func (s *Synthesizer) groundInsights(insights []models.RiskInsight, abstracts []models.LiteratureAbstract) []models.RiskInsight {
	known := make(map[string]struct{}, len(abstracts)*2)
	for _, a := range abstracts {
		known[normalizeURL(a.URL)] = struct{}{}
		if a.DOI != "" {
			known[normalizeURL(a.DOI)] = struct{}{}
		}
	}

	kept := make([]models.RiskInsight, 0, len(insights))
	for _, insight := range insights {
		if !insight.RiskLevel.Known() {
			s.log.Warn("dropping insight with unknown risk level",
				slog.String("cancerType", insight.CancerType),
				slog.String("riskLevel", string(insight.RiskLevel)),
			)
			continue
		}

		valid := make([]models.Citation, 0, len(insight.Citations))
		for _, c := range insight.Citations {
			if _, ok := known[normalizeURL(c.URL)]; ok {
				valid = append(valid, c)
				continue
			}
			s.log.Warn("dropping fabricated citation",
				slog.String("cancerType", insight.CancerType),
				slog.String("url", c.URL),
			)
		}
		if len(valid) == 0 {
			s.log.Warn("dropping insight without surviving citations",
				slog.String("cancerType", insight.CancerType))
			continue
		}
		insight.Citations = valid

		if !mentionsPhysician(insight.Recommendation) {
			s.log.Warn("recommendation lacks physician-consultation clause",
				slog.String("cancerType", insight.CancerType))
		}

		kept = append(kept, insight)
	}
	return kept
}

func normalizeURL(u string) string {
	return strings.TrimSuffix(strings.TrimSpace(strings.ToLower(u)), "/")
}

// mentionsPhysician is a best-effort check for the consultation clause
// the prompt demands; absence is logged, not fatal.
func mentionsPhysician(recommendation string) bool {
	lower := strings.ToLower(recommendation)
	for _, word := range []string{"physician", "doctor", "oncologist", "healthcare provider", "medical professional"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
