package access_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/plumepress/newsletter-backend/internal/access"
	"github.com/plumepress/newsletter-backend/internal/model"
	"github.com/plumepress/newsletter-backend/internal/token"
)

var tokens = token.NewService("test-secret")

func campaign(status string, published bool) *model.Campaign {
	return &model.Campaign{
		ID:        5,
		Title:     "Spring News",
		Status:    status,
		Published: published,
		CreatedAt: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestDecide(t *testing.T) {
	draft := campaign(model.StatusDraft, false)
	validToken := tokens.Generate(draft.ID, draft.CreatedAt)

	tests := []struct {
		name      string
		c         *model.Campaign
		requester access.Requester
		candidate string
		allow     bool
		view      access.View
		status    int
	}{
		{
			name: "published is public for anonymous",
			c:    campaign(model.StatusSent, true), requester: access.Anonymous,
			allow: true, view: access.ViewPublic, status: http.StatusOK,
		},
		{
			name: "published ignores stale preview token",
			c:    campaign(model.StatusSent, true), requester: access.Anonymous, candidate: validToken,
			allow: true, view: access.ViewPublic, status: http.StatusOK,
		},
		{
			name: "published ignores garbage token",
			c:    campaign(model.StatusSent, true), requester: access.Anonymous, candidate: "junk",
			allow: true, view: access.ViewPublic, status: http.StatusOK,
		},
		{
			name: "editor sees draft without token",
			c:    draft, requester: access.Editor,
			allow: true, view: access.ViewDraft, status: http.StatusOK,
		},
		{
			name: "editor sees draft regardless of bad token",
			c:    draft, requester: access.Editor, candidate: "wrong",
			allow: true, view: access.ViewDraft, status: http.StatusOK,
		},
		{
			name: "valid token grants draft preview",
			c:    draft, requester: access.Anonymous, candidate: validToken,
			allow: true, view: access.ViewPreview, status: http.StatusOK,
		},
		{
			name: "anonymous draft without token is forbidden",
			c:    draft, requester: access.Anonymous,
			status: http.StatusForbidden,
		},
		{
			name: "anonymous draft with wrong token is forbidden",
			c:    draft, requester: access.Anonymous, candidate: "0000000000000000",
			status: http.StatusForbidden,
		},
		{
			name: "sending state reads as not found",
			c:    campaign(model.StatusSending, false), requester: access.Anonymous, candidate: validToken,
			status: http.StatusNotFound,
		},
		{
			name: "error state reads as not found even for editors",
			c:    campaign(model.StatusError, false), requester: access.Editor,
			status: http.StatusNotFound,
		},
		{
			name: "sent but unpublished inconsistency reads as not found",
			c:    campaign(model.StatusSent, false), requester: access.Anonymous, candidate: validToken,
			status: http.StatusNotFound,
		},
		{
			name: "missing campaign fails closed",
			c:    nil, requester: access.Editor, candidate: validToken,
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := access.Decide(tokens, tt.c, tt.requester, tt.candidate)
			if d.Allow != tt.allow {
				t.Fatalf("allow = %v, want %v", d.Allow, tt.allow)
			}
			if d.Allow && d.View != tt.view {
				t.Errorf("view = %v, want %v", d.View, tt.view)
			}
			if d.Status != tt.status {
				t.Errorf("status = %d, want %d", d.Status, tt.status)
			}
		})
	}
}

func TestTokenForOtherDraftDoesNotTransfer(t *testing.T) {
	other := campaign(model.StatusDraft, false)
	other.ID = 99
	otherToken := tokens.Generate(other.ID, other.CreatedAt)

	target := campaign(model.StatusDraft, false)
	d := access.Decide(tokens, target, access.Anonymous, otherToken)
	if d.Allow {
		t.Error("a token for one draft must not open another draft")
	}
}
