package reference

import (
	"net/url"

	"github.com/ppiankov/truthcheck/internal/model"
)

// NewsLink builds the news search link for claim. No request is made.
// Query parameters already present in searchURL are kept.
func NewsLink(searchURL, claim string) model.Reference {
	ref := model.Reference{Label: "Google News: " + claim}

	u, err := url.Parse(searchURL)
	if err != nil {
		ref.URL = searchURL + "?q=" + url.QueryEscape(claim)
		return ref
	}
	q := u.Query()
	q.Set("q", claim)
	u.RawQuery = q.Encode()
	ref.URL = u.String()
	return ref
}
