package reference

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/ppiankov/truthcheck/internal/model"
)

// sanitizer allows only the elements Markup emits
var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("br", "strong")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Markup renders refs as the "Related Sources" HTML fragment stored with each history entry
func Markup(refs []model.Reference) string {
	var b strings.Builder
	b.WriteString("<br><strong>Related Sources:</strong><br>")
	for i, ref := range refs {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(ref.URL))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(ref.Label))
		b.WriteString("</a>")
	}
	return Sanitize(b.String())
}

// Sanitize strips everything but links, line breaks and bold text from a references fragment
func Sanitize(fragment string) string {
	return sanitizer.Sanitize(fragment)
}
