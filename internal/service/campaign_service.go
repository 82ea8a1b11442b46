package service

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	appErrors "github.com/plumepress/newsletter-backend/internal/errors"
	"github.com/plumepress/newsletter-backend/internal/mailer"
	"github.com/plumepress/newsletter-backend/internal/model"
	"github.com/plumepress/newsletter-backend/internal/repository"
	"github.com/plumepress/newsletter-backend/internal/token"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	AudienceRepo repository.AudienceRepositoryInterface
	Transport    mailer.Transport
	Tokens       *token.Service

	BaseURL  string
	SiteName string
	// PaceDelay spaces out recipient deliveries. Politeness, not correctness.
	PaceDelay time.Duration
}

func (s *CampaignService) CreateCampaign(c *model.Campaign) error {
	if strings.TrimSpace(c.Title) == "" {
		return appErrors.NewInvalidInput("title", "must not be empty")
	}
	c.Status = model.StatusDraft
	return s.CampaignRepo.Create(c)
}

// UpdateCampaign replaces title, blocks and audience. Sent campaigns are
// immutable; the repository enforces the same rule at the row level.
func (s *CampaignService) UpdateCampaign(c *model.Campaign) error {
	current, err := s.CampaignRepo.GetByID(c.ID)
	if err != nil {
		return err
	}
	if current.Locked || current.Status == model.StatusSent {
		return appErrors.NewCampaignLocked(c.ID)
	}
	if strings.TrimSpace(c.Title) == "" {
		return appErrors.NewInvalidInput("title", "must not be empty")
	}
	if c.AudienceID != nil {
		if _, err := s.AudienceRepo.GetByID(*c.AudienceID); err != nil {
			return err
		}
	}
	return s.CampaignRepo.Update(c)
}

func (s *CampaignService) GetCampaign(id int) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(id)
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// ViewOnlineURL returns the link embedded in emails and shown to editors:
// the permanent public URL once published, otherwise the tokenized preview
// URL that stops mattering at publish time.
func (s *CampaignService) ViewOnlineURL(c *model.Campaign) string {
	base := fmt.Sprintf("%s/campaigns/%d/view", s.BaseURL, c.ID)
	if c.Published {
		return base
	}
	return base + "?preview_token=" + s.Tokens.Generate(c.ID, c.CreatedAt)
}

// SendCampaign runs the full send: claim the sending state, resolve the
// audience, publish, render once, deliver sequentially, record the terminal
// state. Per-recipient failures are collected, not raised.
func (s *CampaignService) SendCampaign(campaignID int) (*model.SendReport, error) {
	c, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if c.AudienceID == nil {
		return nil, appErrors.NewInvalidInput("audience", "campaign has no audience selected")
	}

	// Serialization point: exactly one request wins the draft->sending claim.
	if err := s.CampaignRepo.ClaimSending(campaignID); err != nil {
		return nil, err
	}

	contacts, err := s.AudienceRepo.ActiveContacts(*c.AudienceID)
	if err != nil {
		s.failCampaign(campaignID)
		return nil, err
	}
	if len(contacts) == 0 {
		s.failCampaign(campaignID)
		return nil, appErrors.NewNoEligibleRecipients(*c.AudienceID)
	}
	if len(c.Blocks) == 0 {
		s.failCampaign(campaignID)
		return nil, appErrors.NewInvalidInput("blocks", "campaign has no content")
	}

	// Publish before rendering so the view-online link baked into every
	// email is the permanent public URL, not a preview token.
	if err := s.CampaignRepo.Publish(campaignID); err != nil {
		s.failCampaign(campaignID)
		return nil, err
	}
	c.Published = true

	doc := mailer.Document{
		Title:             c.Title,
		Blocks:            c.Blocks,
		ViewOnlineURL:     s.ViewOnlineURL(c),
		ShowViewOnlineBar: true,
		SiteName:          s.SiteName,
	}
	html := doc.HTML()

	sentCount := 0
	failed := []string{}
	for i, contact := range contacts {
		if i > 0 && s.PaceDelay > 0 {
			time.Sleep(s.PaceDelay)
		}
		msg := &mailer.Message{To: contact.Email, Subject: c.Title, HTML: html}
		if err := s.Transport.Send(msg); err != nil {
			log.Printf("campaign %d: delivery to %s failed: %v", campaignID, contact.Email, err)
			failed = append(failed, contact.Email)
			continue
		}
		sentCount++
	}

	if sentCount == 0 {
		s.failCampaign(campaignID)
		return nil, appErrors.NewAllDeliveriesFailed(campaignID, len(failed))
	}

	sentAt := time.Now()
	if err := s.CampaignRepo.MarkSent(campaignID, sentCount, failed, sentAt); err != nil {
		return nil, err
	}

	log.Printf("campaign %d sent: %d delivered, %d failed", campaignID, sentCount, len(failed))
	return &model.SendReport{
		CampaignID:       campaignID,
		SentCount:        sentCount,
		FailedCount:      len(failed),
		FailedRecipients: failed,
		SentAt:           sentAt,
	}, nil
}

func (s *CampaignService) failCampaign(id int) {
	if err := s.CampaignRepo.MarkError(id); err != nil {
		log.Printf("campaign %d: failed to record error state: %v", id, err)
	}
}

// SendTest delivers the campaign to one address without touching the state
// machine. Safe to call repeatedly, in any status.
func (s *CampaignService) SendTest(campaignID int, address string) error {
	if _, err := mail.ParseAddress(address); err != nil {
		return appErrors.NewInvalidInput("email", "not a valid address")
	}
	c, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if len(c.Blocks) == 0 {
		return appErrors.NewInvalidInput("blocks", "campaign has no content")
	}

	doc := mailer.Document{
		Title:             c.Title,
		Blocks:            c.Blocks,
		ViewOnlineURL:     s.ViewOnlineURL(c),
		ShowViewOnlineBar: c.Published,
		SiteName:          s.SiteName,
	}

	prefix := "[TEST] "
	if !c.Published {
		prefix = "[DRAFT TEST] "
	}
	return s.Transport.Send(&mailer.Message{
		To:      address,
		Subject: prefix + c.Title,
		HTML:    doc.HTML(),
	})
}
