package wikipedia

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wikirag"
)

// removeSelector matches markup that adds noise to the converted text:
// citation superscripts, edit-section links, reference lists, infoboxes
// and navboxes.
const removeSelector = "sup.reference, sup.noprint, span.mw-editsection, span.mw-cite-backlink, ol.references, style, script, table.infobox, div.navbox"

var blankLines = regexp.MustCompile(`\n{3,}`)

// cleanArticleHTML strips non-content markup from article HTML before
// conversion, the HTML counterpart of deleting [n] citation markers from
// plain text.
func cleanArticleHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", wikirag.Errorf(wikirag.EINVALID, "malformed article HTML: %v", err)
	}

	doc.Find(removeSelector).Remove()

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return "", wikirag.Errorf(wikirag.EINVALID, "malformed article HTML: %v", err)
	}
	return cleaned, nil
}

// normalizeText trims converted markdown and collapses the runs of blank
// lines that removed markup leaves behind.
func normalizeText(s string) string {
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n"))
}
