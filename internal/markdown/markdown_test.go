package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_BasicMarkdown(t *testing.T) {
	r := New()

	out := string(r.Render("**Park cleanup** on Saturday"))
	assert.Contains(t, out, "<strong>Park cleanup</strong>")
}

func TestRender_StripsScripts(t *testing.T) {
	r := New()

	out := string(r.Render(`Hello <script>alert("x")</script> world`))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Hello")
}

func TestRender_LinkifiesURLs(t *testing.T) {
	r := New()

	out := string(r.Render("Sign up at https://example.org/cleanup"))
	assert.Contains(t, out, `<a href="https://example.org/cleanup"`)
}

func TestRender_KeepsListsAndParagraphs(t *testing.T) {
	r := New()

	out := string(r.Render("What to bring:\n\n- gloves\n- water"))
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<li>gloves</li>")
}
