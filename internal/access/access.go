// Package access decides whether a view request may see a campaign and
// which variant of the page to render.
package access

import (
	"net/http"

	"github.com/plumepress/newsletter-backend/internal/model"
	"github.com/plumepress/newsletter-backend/internal/token"
)

// Requester classifies who is asking.
type Requester int

const (
	Anonymous Requester = iota
	Editor
)

// View is the page variant to render when access is allowed.
type View int

const (
	ViewNone View = iota
	// ViewPublic is the normal published page.
	ViewPublic
	// ViewDraft is the editor's draft view.
	ViewDraft
	// ViewPreview is the token-bearer's read-only preview. Responses must be
	// non-cacheable and non-indexable.
	ViewPreview
)

type Decision struct {
	Allow  bool
	View   View
	Status int
}

// Decide applies the access rules in order, first match wins:
//
//  1. published campaigns are public for everyone; a token changes nothing
//  2. editors always see their own drafts
//  3. a valid preview token grants read-only access to that one draft
//  4. draft without access: 403; any other unpublished state is not a
//     user-facing page and reads as not found
//
// Any error resolving the campaign fails closed: a nil campaign denies.
func Decide(tokens *token.Service, c *model.Campaign, req Requester, candidate string) Decision {
	if c == nil {
		return Decision{Status: http.StatusNotFound}
	}
	if c.Published {
		return Decision{Allow: true, View: ViewPublic, Status: http.StatusOK}
	}
	if c.Status == model.StatusDraft {
		if req == Editor {
			return Decision{Allow: true, View: ViewDraft, Status: http.StatusOK}
		}
		if candidate != "" && tokens.Validate(c.ID, c.CreatedAt, candidate) {
			return Decision{Allow: true, View: ViewPreview, Status: http.StatusOK}
		}
		return Decision{Status: http.StatusForbidden}
	}
	return Decision{Status: http.StatusNotFound}
}
