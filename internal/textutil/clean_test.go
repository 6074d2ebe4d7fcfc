package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsHTML(t *testing.T) {
	in := `<html><body><p>Hello there,</p><div>please <b>confirm</b> your order.</div></body></html>`

	got := Clean(in)

	assert.Equal(t, "Hello there,\nplease confirm your order.", got)
}

func TestCleanDecodesEntities(t *testing.T) {
	got := Clean("Tom &amp; Jerry &lt;3&nbsp;&quot;cheese&quot;")

	assert.Equal(t, `Tom & Jerry <3 "cheese"`, got)
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	in := "line one   \n\n   line two\t\twith    runs  "

	got := Clean(in)

	assert.Equal(t, "line one\nline two with runs", got)
}

func TestCleanEmpty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
}

func TestCleanPlainTextPassthrough(t *testing.T) {
	got := Clean("Just a plain sentence.")

	assert.Equal(t, "Just a plain sentence.", got)
}

func TestPreviewTruncates(t *testing.T) {
	body := ""
	for i := 0; i < 30; i++ {
		body += "0123456789"
	}

	got := Preview("subj", "a@example.com", body)

	assert.Contains(t, got, "...")
	assert.Contains(t, got, "a@example.com")
	assert.NotContains(t, got, "\n")
}
