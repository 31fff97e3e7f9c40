package services

import (
	"regexp"
	"strings"
)

var (
	sectionLabelRe = regexp.MustCompile(`\[[^\[\]\n]*\]`)
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)

	// Lines Genius injects around the lyric body: contributor counts,
	// embed footers, translation headers, promo inserts.
	boilerplateLineRe = regexp.MustCompile(`(?i)^(\d+\s*contributors?\b.*|\S*embed|translations?|you might also like)$`)
)

// NormalizeLyrics turns raw scraped lyrics into analysis-ready text.
// It removes bracketed section labels ([Chorus], [Verse 2]), drops
// non-lyrical boilerplate lines, collapses whitespace runs, and trims.
// An empty return value means there is nothing to analyze.
func NormalizeLyrics(raw string) string {
	cleaned := sectionLabelRe.ReplaceAllString(raw, "")

	var b strings.Builder
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if boilerplateLineRe.MatchString(line) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return strings.TrimSpace(blankRunRe.ReplaceAllString(b.String(), "\n\n"))
}
