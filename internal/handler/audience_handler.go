package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plumepress/newsletter-backend/internal/model"
	"github.com/plumepress/newsletter-backend/internal/repository"
)

type AudienceHandler struct {
	Repo repository.AudienceRepositoryInterface
}

func (h *AudienceHandler) CreateAudience(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	audience := &model.Audience{Name: body.Name, Description: body.Description}
	if err := h.Repo.Create(audience); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, audience)
}

func (h *AudienceHandler) ListAudiences(w http.ResponseWriter, r *http.Request) {
	audiences, err := h.Repo.ListAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": audiences})
}

func (h *AudienceHandler) GetAudience(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid audience id", http.StatusBadRequest)
		return
	}
	audience, err := h.Repo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audience)
}

// DeleteAudience refuses to remove an audience any campaign still references.
func (h *AudienceHandler) DeleteAudience(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid audience id", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AudienceHandler) membershipIDs(r *http.Request) (int, int, bool) {
	audienceID, err1 := strconv.Atoi(chi.URLParam(r, "id"))
	contactID, err2 := strconv.Atoi(chi.URLParam(r, "contactID"))
	return audienceID, contactID, err1 == nil && err2 == nil
}

func (h *AudienceHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	audienceID, contactID, ok := h.membershipIDs(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if _, err := h.Repo.GetByID(audienceID); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Repo.AddContact(audienceID, contactID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AudienceHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	audienceID, contactID, ok := h.membershipIDs(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Repo.RemoveContact(audienceID, contactID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
