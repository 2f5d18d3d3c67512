package pubmed

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/oncogenie/oncogenie/backend/internal/models"
)

// The efetch payload is semi-structured XML with enough markup drift
// across records that a schema-validating parser buys nothing. Each
// field is pulled with an anchored expression and treated as optional;
// records missing a usable title or PMID are dropped outright, since a
// surfaced abstract must carry a dereferenceable URL for citation.
var (
	articleRe  = regexp.MustCompile(`(?s)<PubmedArticle>(.*?)</PubmedArticle>`)
	titleRe    = regexp.MustCompile(`(?s)<ArticleTitle[^>]*>(.*?)</ArticleTitle>`)
	abstractRe = regexp.MustCompile(`(?s)<AbstractText[^>]*>(.*?)</AbstractText>`)
	pmidRe     = regexp.MustCompile(`<PMID[^>]*>(\d+)</PMID>`)
	yearRe     = regexp.MustCompile(`(?s)<PubDate>.*?<Year>(\d{4})</Year>`)
	doiRe      = regexp.MustCompile(`<ArticleId IdType="doi">([^<]+)</ArticleId>`)

	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const articleBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

// ParseArticles extracts usable abstracts from a raw efetch response.
// Malformed records are skipped, never emitted with blank fields.
func ParseArticles(raw string) []models.LiteratureAbstract {
	matches := articleRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]models.LiteratureAbstract, 0, len(matches))
	for _, m := range matches {
		record := m[1]

		title := cleanField(firstMatch(titleRe, record))
		pmid := firstMatch(pmidRe, record)
		if title == "" || pmid == "" {
			continue
		}

		abs := models.LiteratureAbstract{
			Title:    title,
			Abstract: joinAbstractSections(record),
			DOI:      strings.TrimSpace(firstMatch(doiRe, record)),
			URL:      articleBaseURL + pmid + "/",
		}
		if y := firstMatch(yearRe, record); y != "" {
			abs.Year, _ = strconv.Atoi(y)
		}
		out = append(out, abs)
	}
	return out
}

// joinAbstractSections concatenates every AbstractText block; many
// records split the abstract into labelled sections.
func joinAbstractSections(record string) string {
	sections := abstractRe.FindAllStringSubmatch(record, -1)
	if len(sections) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if cleaned := cleanField(s[1]); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// cleanField strips residual inline markup, decodes entities and
// squeezes whitespace.
func cleanField(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
