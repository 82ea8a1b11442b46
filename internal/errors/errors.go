package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

type ErrAudienceNotFound struct {
	AudienceID int
}

func (e *ErrAudienceNotFound) Error() string {
	return fmt.Sprintf("audience with ID %d not found", e.AudienceID)
}

func NewAudienceNotFound(id int) error {
	return &ErrAudienceNotFound{AudienceID: id}
}

type ErrContactNotFound struct {
	ContactID int
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact with ID %d not found", e.ContactID)
}

func NewContactNotFound(id int) error {
	return &ErrContactNotFound{ContactID: id}
}

// ErrInvalidInput covers malformed addresses, missing audiences and
// malformed request payloads.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewInvalidInput(field, reason string) error {
	return &ErrInvalidInput{Field: field, Reason: reason}
}

// ErrNoEligibleRecipients means the audience resolved to zero active contacts.
type ErrNoEligibleRecipients struct {
	AudienceID int
}

func (e *ErrNoEligibleRecipients) Error() string {
	return fmt.Sprintf("no eligible contacts in audience %d", e.AudienceID)
}

func NewNoEligibleRecipients(audienceID int) error {
	return &ErrNoEligibleRecipients{AudienceID: audienceID}
}

// ErrAlreadySending means another request has already claimed the campaign.
type ErrAlreadySending struct {
	CampaignID int
}

func (e *ErrAlreadySending) Error() string {
	return fmt.Sprintf("campaign %d is already being sent", e.CampaignID)
}

func NewAlreadySending(id int) error {
	return &ErrAlreadySending{CampaignID: id}
}

type ErrAlreadySent struct {
	CampaignID int
}

func (e *ErrAlreadySent) Error() string {
	return fmt.Sprintf("campaign %d has already been sent", e.CampaignID)
}

func NewAlreadySent(id int) error {
	return &ErrAlreadySent{CampaignID: id}
}

// ErrCampaignLocked means the campaign was sent and locked; its status,
// title and content are immutable.
type ErrCampaignLocked struct {
	CampaignID int
}

func (e *ErrCampaignLocked) Error() string {
	return fmt.Sprintf("campaign %d is sent and locked", e.CampaignID)
}

func NewCampaignLocked(id int) error {
	return &ErrCampaignLocked{CampaignID: id}
}

// ErrAudienceInUse blocks deleting an audience that campaigns still reference.
type ErrAudienceInUse struct {
	AudienceID    int
	CampaignCount int
}

func (e *ErrAudienceInUse) Error() string {
	return fmt.Sprintf("audience %d is referenced by %d campaign(s)", e.AudienceID, e.CampaignCount)
}

func NewAudienceInUse(id, campaignCount int) error {
	return &ErrAudienceInUse{AudienceID: id, CampaignCount: campaignCount}
}

// ErrAllDeliveriesFailed means every recipient delivery failed and the
// campaign was moved to the error state.
type ErrAllDeliveriesFailed struct {
	CampaignID  int
	FailedCount int
}

func (e *ErrAllDeliveriesFailed) Error() string {
	return fmt.Sprintf("failed to deliver campaign %d to any of %d recipients", e.CampaignID, e.FailedCount)
}

func NewAllDeliveriesFailed(id, failedCount int) error {
	return &ErrAllDeliveriesFailed{CampaignID: id, FailedCount: failedCount}
}
