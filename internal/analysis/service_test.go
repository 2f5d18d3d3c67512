package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oncogenie/oncogenie/backend/internal/analysis"
	"github.com/oncogenie/oncogenie/backend/internal/models"
	"github.com/oncogenie/oncogenie/backend/internal/pubmed"
	"github.com/oncogenie/oncogenie/backend/internal/synthesis"
)

type stubFetcher struct {
	abstracts []models.LiteratureAbstract
	err       error
	calls     int
	queries   []string
}

func (s *stubFetcher) FetchAbstracts(_ context.Context, queries []string) ([]models.LiteratureAbstract, error) {
	s.calls++
	s.queries = queries
	return s.abstracts, s.err
}

type stubSynth struct {
	result *models.AnalysisResult
	err    error
	calls  int
	got    []models.LiteratureAbstract
}

func (s *stubSynth) Synthesize(_ context.Context, _ models.HealthProfile, abstracts []models.LiteratureAbstract) (*models.AnalysisResult, error) {
	s.calls++
	s.got = abstracts
	return s.result, s.err
}

func validProfile() models.HealthProfile {
	return models.HealthProfile{
		Age:                55,
		BMI:                32,
		Sex:                models.SexFemale,
		SmokingStatus:      models.SmokingCurrent,
		AlcoholConsumption: models.AlcoholModerate,
		DietaryPattern:     models.DietWestern,
	}
}

func TestAnalyze(t *testing.T) {
	abstracts := []models.LiteratureAbstract{{Title: "T", URL: "https://pubmed.ncbi.nlm.nih.gov/1/"}}
	want := &models.AnalysisResult{ID: "abc", SearchedAbstracts: abstracts}

	fetcher := &stubFetcher{abstracts: abstracts}
	synth := &stubSynth{result: want}
	svc := analysis.NewService(fetcher, synth, nil)

	got, err := svc.Analyze(context.Background(), validProfile())
	require.NoError(t, err)
	require.Same(t, want, got)

	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, 1, synth.calls)
	require.NotEmpty(t, fetcher.queries)
	require.Equal(t, abstracts, synth.got)
}

func TestAnalyzeInvalidProfileSkipsNetwork(t *testing.T) {
	fetcher := &stubFetcher{}
	synth := &stubSynth{}
	svc := analysis.NewService(fetcher, synth, nil)

	p := validProfile()
	p.Age = 200

	_, err := svc.Analyze(context.Background(), p)
	require.ErrorIs(t, err, analysis.ErrInvalidProfile)
	require.Zero(t, fetcher.calls)
	require.Zero(t, synth.calls)
}

func TestAnalyzeNoAbstractsSkipsInference(t *testing.T) {
	fetcher := &stubFetcher{err: pubmed.ErrNoResults}
	synth := &stubSynth{}
	svc := analysis.NewService(fetcher, synth, nil)

	_, err := svc.Analyze(context.Background(), validProfile())
	require.ErrorIs(t, err, analysis.ErrNoAbstractsFound)
	require.Zero(t, synth.calls)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		fetchErr   error
		synthErr   error
		wantKind   error
		otherKinds []error
	}{
		{
			name:     "literature transport failure",
			fetchErr: fmt.Errorf("%w: dial tcp refused", pubmed.ErrUnavailable),
			wantKind: analysis.ErrLiteratureUnavailable,
			otherKinds: []error{
				analysis.ErrNoAbstractsFound, analysis.ErrInferenceUnavailable,
			},
		},
		{
			name:       "no usable records",
			fetchErr:   pubmed.ErrNoResults,
			wantKind:   analysis.ErrNoAbstractsFound,
			otherKinds: []error{analysis.ErrLiteratureUnavailable},
		},
		{
			name:       "inference transport failure",
			synthErr:   fmt.Errorf("%w: deadline exceeded", synthesis.ErrUnavailable),
			wantKind:   analysis.ErrInferenceUnavailable,
			otherKinds: []error{analysis.ErrMalformedModelOutput},
		},
		{
			name:       "unparsable model output",
			synthErr:   fmt.Errorf("%w: unexpected end of input", synthesis.ErrMalformedOutput),
			wantKind:   analysis.ErrMalformedModelOutput,
			otherKinds: []error{analysis.ErrInferenceUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{err: tt.fetchErr}
			if tt.fetchErr == nil {
				fetcher.abstracts = []models.LiteratureAbstract{{Title: "T", URL: "u"}}
			}
			synth := &stubSynth{err: tt.synthErr, result: &models.AnalysisResult{}}

			svc := analysis.NewService(fetcher, synth, nil)
			_, err := svc.Analyze(context.Background(), validProfile())

			require.ErrorIs(t, err, tt.wantKind)
			for _, other := range tt.otherKinds {
				require.False(t, errors.Is(err, other), "must not also be %v", other)
			}
		})
	}
}
