// Package pubmed wraps the NCBI E-utilities endpoints used to ground
// an analysis: esearch for PMIDs, efetch for abstract records.
package pubmed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/oncogenie/oncogenie/backend/internal/models"
)

var (
	// ErrUnavailable means the search service could not be reached or
	// answered with an error; the caller may retry later.
	ErrUnavailable = errors.New("literature service unavailable")

	// ErrNoResults means the service answered but yielded zero usable
	// open-access records; there is nothing to ground an answer on.
	ErrNoResults = errors.New("no usable abstracts found")
)

// Options tune the two-step search/fetch protocol.
type Options struct {
	BaseURL     string        // E-utilities root, e.g. https://eutils.ncbi.nlm.nih.gov/entrez/eutils
	MaxQueries  int           // search terms tried per request
	IDsPerQuery int           // retmax per esearch call
	MaxResults  int           // abstracts cap per request (3..5)
	Timeout     time.Duration // per HTTP call
	RateLimit   rate.Limit    // outbound requests per second
	Burst       int
}

// Client issues the two sequential read-only calls against the
// literature service. Safe for concurrent use; all per-request state
// stays on the stack.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// New instantiates the literature client.
func New(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Client{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(opts.RateLimit, opts.Burst),
		log:     logger,
	}
}

// FetchAbstracts runs queries in order until the PMID budget is
// exhausted, then fetches and extracts the records. A single failed
// search is tolerated while any other query still yields IDs; a fetch
// failure is not.
func (c *Client) FetchAbstracts(ctx context.Context, queries []string) ([]models.LiteratureAbstract, error) {
	if len(queries) > c.opts.MaxQueries {
		queries = queries[:c.opts.MaxQueries]
	}

	var (
		pmids     []string
		seen      = make(map[string]struct{})
		searchErr error
	)

	for _, q := range queries {
		ids, err := c.search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
			c.log.Warn("pubmed search failed", slog.String("query", q), slog.Any("err", err))
			searchErr = err
			continue
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			pmids = append(pmids, id)
		}
		if len(pmids) >= c.opts.MaxResults {
			pmids = pmids[:c.opts.MaxResults]
			break
		}
	}

	if len(pmids) == 0 {
		if searchErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, searchErr)
		}
		return nil, ErrNoResults
	}

	raw, err := c.fetch(ctx, pmids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	abstracts := ParseArticles(raw)
	if len(abstracts) == 0 {
		c.log.Warn("efetch returned no extractable records", slog.Int("pmids", len(pmids)))
		return nil, ErrNoResults
	}

	c.log.Info("abstracts retrieved",
		slog.Int("queries", len(queries)),
		slog.Int("pmids", len(pmids)),
		slog.Int("abstracts", len(abstracts)),
	)
	return abstracts, nil
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// search returns PMIDs for one term, restricted to open-access records.
func (c *Client) search(ctx context.Context, term string) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {fmt.Sprint(c.opts.IDsPerQuery)},
		"retmode": {"json"},
		"sort":    {"relevance"},
		"filter":  {"free full text[sb]"},
	}

	body, err := c.get(ctx, c.opts.BaseURL+"/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var parsed esearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode esearch response: %w", err)
	}
	return parsed.ESearchResult.IDList, nil
}

// fetch retrieves full records for the PMIDs in one batch call.
func (c *Client) fetch(ctx context.Context, pmids []string) (string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}

	body, err := c.get(ctx, c.opts.BaseURL+"/efetch.fcgi", params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%s returned %d: %s", endpoint, res.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
