package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plumepress/newsletter-backend/internal/access"
	"github.com/plumepress/newsletter-backend/internal/block"
	"github.com/plumepress/newsletter-backend/internal/model"
	"github.com/plumepress/newsletter-backend/internal/service"
	"github.com/plumepress/newsletter-backend/internal/token"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers
type CampaignHandler struct {
	Service   *service.CampaignService
	Tokens    *token.Service
	EditorKey string
}

func campaignID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title      string       `json:"title"`
		Blocks     block.Blocks `json:"blocks"`
		AudienceID *int         `json:"audience_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	campaign := &model.Campaign{
		Title:      body.Title,
		Blocks:     body.Blocks,
		AudienceID: body.AudienceID,
	}
	if err := h.Service.CreateCampaign(campaign); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	var body struct {
		Title      string       `json:"title"`
		Blocks     block.Blocks `json:"blocks"`
		AudienceID *int         `json:"audience_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	campaign := &model.Campaign{
		ID:         id,
		Title:      body.Title,
		Blocks:     body.Blocks,
		AudienceID: body.AudienceID,
	}
	if err := h.Service.UpdateCampaign(campaign); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.Service.GetCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := h.Service.ListCampaigns(page, pageSize, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	campaign, err := h.Service.GetCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// PreviewLink hands the editor the status-appropriate view-online URL: the
// public permalink once published, the tokenized preview link while draft.
func (h *CampaignHandler) PreviewLink(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	campaign, err := h.Service.GetCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]interface{}{
		"url":       h.Service.ViewOnlineURL(campaign),
		"published": campaign.Published,
	}
	if !campaign.Published {
		// Editors already hold edit rights, so the expected token is fair
		// diagnostic detail.
		resp["preview_token"] = h.Tokens.Generate(campaign.ID, campaign.CreatedAt)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CampaignHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	report, err := h.Service.SendCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *CampaignHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Service.SendTest(id, body.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// ViewCampaign is the public view endpoint. Access follows the decision
// table: published pages are public, drafts need edit rights or a valid
// preview token, everything else reads as not found.
func (h *CampaignHandler) ViewCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	campaign, err := h.Service.GetCampaign(id)
	if err != nil {
		campaign = nil
	}

	requester := access.Anonymous
	if IsEditor(r, h.EditorKey) {
		requester = access.Editor
	}
	candidate := r.URL.Query().Get("preview_token")

	decision := access.Decide(h.Tokens, campaign, requester, candidate)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !decision.Allow {
		w.WriteHeader(decision.Status)
		w.Write([]byte(renderUnavailable(decision.Status == http.StatusForbidden)))
		return
	}

	if decision.View != access.ViewPublic {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		w.Header().Set("X-Robots-Tag", "noindex, nofollow")
	}
	w.Write([]byte(renderPage(campaign, decision.View)))
}
