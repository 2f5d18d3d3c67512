// Package analysis sequences the pipeline: profile validation, query
// building, literature retrieval, synthesis. It owns the error
// taxonomy the HTTP boundary maps onto statuses.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oncogenie/oncogenie/backend/internal/models"
	"github.com/oncogenie/oncogenie/backend/internal/pubmed"
	"github.com/oncogenie/oncogenie/backend/internal/query"
	"github.com/oncogenie/oncogenie/backend/internal/synthesis"
)

// Every failure kind is terminal for the current request; a retry is a
// fresh request initiated by the caller.
var (
	ErrInvalidProfile        = errors.New("invalid health profile")
	ErrLiteratureUnavailable = errors.New("literature service unavailable")
	ErrNoAbstractsFound      = errors.New("no relevant research found")
	ErrInferenceUnavailable  = errors.New("analysis service unavailable")
	ErrMalformedModelOutput  = errors.New("analysis produced unusable output")
)

// LiteratureFetcher retrieves abstracts for an ordered list of search
// terms.
type LiteratureFetcher interface {
	FetchAbstracts(ctx context.Context, queries []string) ([]models.LiteratureAbstract, error)
}

// Synthesizer produces a grounded analysis from a profile and its
// retrieved abstracts.
type Synthesizer interface {
	Synthesize(ctx context.Context, profile models.HealthProfile, abstracts []models.LiteratureAbstract) (*models.AnalysisResult, error)
}

// Service runs one analysis per call. All state is per-request; the
// struct only holds collaborators.
type Service struct {
	literature LiteratureFetcher
	synth      Synthesizer
	log        *slog.Logger
}

func NewService(literature LiteratureFetcher, synth Synthesizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{literature: literature, synth: synth, log: logger}
}

// Analyze validates the profile, then runs the three stages strictly
// in order. No stage is invoked after a failure and no partial state
// escapes: the caller gets a full result or one error kind.
func (s *Service) Analyze(ctx context.Context, profile models.HealthProfile) (*models.AnalysisResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	queries := query.Build(profile)
	s.log.Info("queries built", slog.Int("count", len(queries)))

	abstracts, err := s.literature.FetchAbstracts(ctx, queries)
	if err != nil {
		switch {
		case errors.Is(err, pubmed.ErrNoResults):
			return nil, fmt.Errorf("%w: %v", ErrNoAbstractsFound, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrLiteratureUnavailable, err)
		}
	}

	result, err := s.synth.Synthesize(ctx, profile, abstracts)
	if err != nil {
		switch {
		case errors.Is(err, synthesis.ErrMalformedOutput):
			return nil, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
		}
	}

	s.log.Info("analysis complete",
		slog.String("id", result.ID),
		slog.Int("insights", len(result.Insights)),
		slog.Int("abstracts", len(result.SearchedAbstracts)),
	)
	return result, nil
}
