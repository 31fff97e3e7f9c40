package genius

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Lyric page selectors, most specific first. Genius rotates its CSS-in-JS
// class names, so the data attribute is the stable anchor.
var lyricsSelectors = []string{
	`div[data-lyrics-container='true']`,
	`div[class*='Lyrics__Container']`,
}

// extractLyrics pulls the lyric text out of a Genius song page. It returns
// an empty string when the page has no recognizable lyric container, which
// callers treat as not-found.
func extractLyrics(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, selector := range lyricsSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			sel.Find(`div[data-exclude-from-selection='true']`).Remove()
			sel.Find("script, style").Remove()
			sel.Find("br").Each(func(_ int, br *goquery.Selection) {
				br.ReplaceWithHtml("\n")
			})
			b.WriteString(sel.Text())
			b.WriteString("\n")
		})
		if b.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(b.String()), nil
}
