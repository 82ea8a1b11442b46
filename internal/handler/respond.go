package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/plumepress/newsletter-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		campaignNotFound *appErrors.ErrCampaignNotFound
		audienceNotFound *appErrors.ErrAudienceNotFound
		contactNotFound  *appErrors.ErrContactNotFound
		invalidInput     *appErrors.ErrInvalidInput
		noRecipients     *appErrors.ErrNoEligibleRecipients
		alreadySending   *appErrors.ErrAlreadySending
		alreadySent      *appErrors.ErrAlreadySent
		locked           *appErrors.ErrCampaignLocked
		audienceInUse    *appErrors.ErrAudienceInUse
		noDeliveries     *appErrors.ErrAllDeliveriesFailed
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &campaignNotFound),
		errors.As(err, &audienceNotFound),
		errors.As(err, &contactNotFound):
		status = http.StatusNotFound
	case errors.As(err, &invalidInput):
		status = http.StatusBadRequest
	case errors.As(err, &noRecipients), errors.As(err, &noDeliveries):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &alreadySending),
		errors.As(err, &alreadySent),
		errors.As(err, &locked),
		errors.As(err, &audienceInUse):
		status = http.StatusConflict
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
