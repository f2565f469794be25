// Package share builds the score-sharing text and social intent links shown
// when a game ends.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Link is one social network share target.
type Link struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// Text returns the share message for a final score.
func Text(score int) string {
	return fmt.Sprintf("I scored %d points in 2048! Can you beat my score?", score)
}

// Links returns the Twitter, Facebook and LINE share links for a score.
// pageURL is the address being shared; it may be empty.
func Links(score int, pageURL string) []Link {
	text := escape(Text(score))
	page := escape(pageURL)

	return []Link{
		{
			Network: "twitter",
			URL:     "https://twitter.com/intent/tweet?text=" + text + "&url=" + page,
		},
		{
			Network: "facebook",
			URL:     "https://www.facebook.com/sharer/sharer.php?u=" + page + "&quote=" + text,
		},
		{
			Network: "line",
			URL:     "https://social-plugins.line.me/lineit/share?url=" + page + "&text=" + text,
		},
	}
}

// componentEscaper undoes QueryEscape for the marks encodeURIComponent
// leaves alone, and writes spaces as %20.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escape percent-encodes s for a query value the way browsers encode a URI
// component.
func escape(s string) string {
	return componentEscaper.Replace(url.QueryEscape(s))
}
