package pubmed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oncogenie/oncogenie/backend/internal/pubmed"
)

const sampleArticle = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE">
      <PMID Version="1">12345678</PMID>
      <Article>
        <Journal><JournalIssue><PubDate><Year>2021</Year><Month>Mar</Month></PubDate></JournalIssue></Journal>
        <ArticleTitle>Smoking &amp; lung cancer: a <i>cohort</i> study</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Smoking is a major risk factor.</AbstractText>
          <AbstractText Label="RESULTS">Risk was <i>elevated</i> in current smokers.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="doi">10.1000/jnl.2021.001</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func TestParseArticles(t *testing.T) {
	got := pubmed.ParseArticles(sampleArticle)
	require.Len(t, got, 1)

	a := got[0]
	require.Equal(t, "Smoking & lung cancer: a cohort study", a.Title)
	require.Equal(t, "Smoking is a major risk factor. Risk was elevated in current smokers.", a.Abstract)
	require.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/12345678/", a.URL)
	require.Equal(t, "10.1000/jnl.2021.001", a.DOI)
	require.Equal(t, 2021, a.Year)
}

func TestParseArticlesDropsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty payload", raw: ""},
		{name: "no articles", raw: `<PubmedArticleSet></PubmedArticleSet>`},
		{
			name: "missing title",
			raw:  `<PubmedArticle><PMID Version="1">111</PMID><AbstractText>text</AbstractText></PubmedArticle>`,
		},
		{
			name: "missing pmid",
			raw:  `<PubmedArticle><ArticleTitle>A title</ArticleTitle><AbstractText>text</AbstractText></PubmedArticle>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Empty(t, pubmed.ParseArticles(tt.raw))
		})
	}
}

func TestParseArticlesKeepsUsableAmongMalformed(t *testing.T) {
	raw := `<PubmedArticle><ArticleTitle>No identifier</ArticleTitle></PubmedArticle>` +
		`<PubmedArticle><PMID Version="1">222</PMID><ArticleTitle>Usable record</ArticleTitle></PubmedArticle>`

	got := pubmed.ParseArticles(raw)
	require.Len(t, got, 1)
	require.Equal(t, "Usable record", got[0].Title)
	require.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/222/", got[0].URL)
	// Abstract is optional; missing body yields an empty string, not a drop.
	require.Empty(t, got[0].Abstract)
	require.Zero(t, got[0].Year)
}
