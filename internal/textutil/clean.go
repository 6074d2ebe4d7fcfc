// Package textutil provides plain-text normalization for raw email bodies.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
	lineSpacePattern = regexp.MustCompile(`\s*\n\s*`)
	runSpacePattern  = regexp.MustCompile(`[ \t]{2,}`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// Clean strips HTML markup from a raw email body, decodes common entities,
// collapses whitespace runs, and trims the result. Plain-text input passes
// through with only the whitespace normalization applied.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	result := raw
	for _, tag := range []string{
		"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>",
	} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	result = htmlTagPattern.ReplaceAllString(result, "")
	result = entityReplacer.Replace(result)

	result = lineSpacePattern.ReplaceAllString(result, "\n")
	result = runSpacePattern.ReplaceAllString(result, " ")

	return strings.TrimSpace(result)
}

// Preview formats a short single-line summary of an email for log output.
func Preview(subject, sender, body string) string {
	const maxLen = 100

	preview := body
	if len(preview) > maxLen {
		preview = preview[:maxLen] + "..."
	}
	preview = strings.ReplaceAll(preview, "\n", " ")

	return fmt.Sprintf("from=%s subject=%q body=%q", sender, subject, preview)
}
