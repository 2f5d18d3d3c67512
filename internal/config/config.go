package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Bounds on the retrieved abstract set. The cap is an explicit design
// limit, not a pagination accident.
const (
	MinAbstracts = 3
	MaxAbstracts = 5
)

// API describes the analysis service configuration.
type API struct {
	BindAddr       string
	RequestTimeout time.Duration

	PubMedBaseURL     string
	PubMedMaxQueries  int
	PubMedIDsPerQuery int
	PubMedMaxResults  int
	PubMedTimeout     time.Duration
	PubMedRate        float64
	PubMedBurst       int

	GeminiModel   string
	GeminiTimeout time.Duration
}

// LoadAPI builds the config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		BindAddr:       getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		RequestTimeout: getDuration("API_REQUEST_TIMEOUT", "90s"),

		PubMedBaseURL:     getEnv("PUBMED_BASE_URL", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"),
		PubMedMaxQueries:  getInt("PUBMED_MAX_QUERIES", 3),
		PubMedIDsPerQuery: getInt("PUBMED_IDS_PER_QUERY", 2),
		PubMedMaxResults:  getInt("PUBMED_MAX_RESULTS", 5),
		PubMedTimeout:     getDuration("PUBMED_TIMEOUT", "15s"),
		PubMedRate:        getFloat("PUBMED_RATE", 3),
		PubMedBurst:       getInt("PUBMED_BURST", 3),

		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout: getDuration("GEMINI_TIMEOUT", "60s"),
	}

	if c.PubMedMaxResults < MinAbstracts || c.PubMedMaxResults > MaxAbstracts {
		return nil, fmt.Errorf("PUBMED_MAX_RESULTS must be between %d and %d", MinAbstracts, MaxAbstracts)
	}
	if c.PubMedMaxQueries <= 0 {
		return nil, fmt.Errorf("PUBMED_MAX_QUERIES must be positive")
	}
	if c.PubMedIDsPerQuery <= 0 {
		return nil, fmt.Errorf("PUBMED_IDS_PER_QUERY must be positive")
	}
	if c.PubMedRate <= 0 {
		return nil, fmt.Errorf("PUBMED_RATE must be positive")
	}
	if c.RequestTimeout <= 0 {
		return nil, fmt.Errorf("API_REQUEST_TIMEOUT must be positive")
	}
	if c.GeminiModel == "" {
		return nil, fmt.Errorf("GEMINI_MODEL cannot be empty")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
