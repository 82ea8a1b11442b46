package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/plumepress/newsletter-backend/internal/block"
	appErrors "github.com/plumepress/newsletter-backend/internal/errors"
	"github.com/plumepress/newsletter-backend/internal/mailer"
	"github.com/plumepress/newsletter-backend/internal/model"
	"github.com/plumepress/newsletter-backend/internal/service"
	"github.com/plumepress/newsletter-backend/internal/token"
)

// --- Mock repositories ---

type mockCampaignRepo struct {
	campaigns map[int]*model.Campaign
}

func newMockCampaignRepo(cs ...*model.Campaign) *mockCampaignRepo {
	m := &mockCampaignRepo{campaigns: map[int]*model.Campaign{}}
	for _, c := range cs {
		m.campaigns[c.ID] = c
	}
	return m
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	c.ID = len(m.campaigns) + 1
	c.CreatedAt = time.Now()
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	copied := *c
	return &copied, nil
}

func (m *mockCampaignRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	return nil, 0, nil
}

func (m *mockCampaignRepo) Update(c *model.Campaign) error {
	current, ok := m.campaigns[c.ID]
	if !ok {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	if current.Locked {
		return appErrors.NewCampaignLocked(c.ID)
	}
	current.Title = c.Title
	current.Blocks = c.Blocks
	current.AudienceID = c.AudienceID
	return nil
}

func (m *mockCampaignRepo) CountByAudience(audienceID int) (int, error) {
	n := 0
	for _, c := range m.campaigns {
		if c.AudienceID != nil && *c.AudienceID == audienceID {
			n++
		}
	}
	return n, nil
}

func (m *mockCampaignRepo) ClaimSending(id int) error {
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	if !c.Locked && (c.Status == model.StatusDraft || c.Status == model.StatusError) {
		c.Status = model.StatusSending
		return nil
	}
	switch c.Status {
	case model.StatusSending:
		return appErrors.NewAlreadySending(id)
	case model.StatusSent:
		return appErrors.NewAlreadySent(id)
	default:
		return appErrors.NewCampaignLocked(id)
	}
}

func (m *mockCampaignRepo) Publish(id int) error {
	m.campaigns[id].Published = true
	return nil
}

func (m *mockCampaignRepo) MarkSent(id, sentCount int, failed []string, sentAt time.Time) error {
	c := m.campaigns[id]
	if c.Status != model.StatusSending {
		return errors.New("not in sending state")
	}
	c.Status = model.StatusSent
	c.Published = true
	c.Locked = true
	c.SentCount = sentCount
	c.SentAt = &sentAt
	c.FailedRecipients = failed
	return nil
}

func (m *mockCampaignRepo) MarkError(id int) error {
	c := m.campaigns[id]
	if !c.Locked {
		c.Status = model.StatusError
	}
	return nil
}

type mockAudienceRepo struct {
	audiences map[int]*model.Audience
	members   map[int][]model.Contact
}

func (m *mockAudienceRepo) Create(a *model.Audience) error { return nil }

func (m *mockAudienceRepo) GetByID(id int) (*model.Audience, error) {
	a, ok := m.audiences[id]
	if !ok {
		return nil, appErrors.NewAudienceNotFound(id)
	}
	return a, nil
}

func (m *mockAudienceRepo) ListAll() ([]model.Audience, error)          { return nil, nil }
func (m *mockAudienceRepo) Delete(id int) error                         { return nil }
func (m *mockAudienceRepo) AddContact(audienceID, contactID int) error  { return nil }
func (m *mockAudienceRepo) RemoveContact(audienceID, contactID int) error { return nil }

func (m *mockAudienceRepo) ActiveContacts(audienceID int) ([]model.Contact, error) {
	contacts := []model.Contact{}
	for _, c := range m.members[audienceID] {
		if c.Status == model.ContactActive {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

// --- Fixtures ---

func intPtr(i int) *int { return &i }

func draftCampaign(id int, audienceID *int) *model.Campaign {
	return &model.Campaign{
		ID:     id,
		Title:  "March Update",
		Status: model.StatusDraft,
		Blocks: block.Blocks{
			block.Header{Title: "March Update"},
			block.Text{Content: "<p>Hello readers</p>"},
		},
		AudienceID: audienceID,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newService(campaigns *mockCampaignRepo, audiences *mockAudienceRepo, transport mailer.Transport) *service.CampaignService {
	return &service.CampaignService{
		CampaignRepo: campaigns,
		AudienceRepo: audiences,
		Transport:    transport,
		Tokens:       token.NewService("test-secret"),
		BaseURL:      "http://example.test",
		SiteName:     "Example",
	}
}

// --- Tests ---

func TestSendCampaignSkipsInactiveContacts(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	audiences := &mockAudienceRepo{
		audiences: map[int]*model.Audience{10: {ID: 10, Name: "A1"}},
		members: map[int][]model.Contact{
			10: {
				{ID: 1, Name: "alice", Email: "alice@example.com", Status: model.ContactActive},
				{ID: 2, Name: "bob", Email: "bob@example.com", Status: model.ContactInactive},
			},
		},
	}
	transport := mailer.NewMemory()
	svc := newService(repo, audiences, transport)

	report, err := svc.SendCampaign(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SentCount != 1 || report.FailedCount != 0 {
		t.Errorf("expected 1 sent / 0 failed, got %d / %d", report.SentCount, report.FailedCount)
	}

	sent := transport.Sent()
	if len(sent) != 1 || sent[0].To != "alice@example.com" {
		t.Fatalf("expected exactly one delivery to alice, got %+v", sent)
	}

	c, _ := repo.GetByID(1)
	if c.Status != model.StatusSent {
		t.Errorf("expected status sent, got %s", c.Status)
	}
	if !c.Locked {
		t.Error("expected campaign to be locked")
	}
	if !c.Published {
		t.Error("expected campaign to be published")
	}
	if c.SentAt == nil {
		t.Error("expected sent_at to be set")
	}
}

func TestSendCampaignEmbedsPublicViewOnlineLink(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	audiences := &mockAudienceRepo{
		audiences: map[int]*model.Audience{10: {ID: 10}},
		members: map[int][]model.Contact{
			10: {{ID: 1, Email: "alice@example.com", Status: model.ContactActive}},
		},
	}
	transport := mailer.NewMemory()
	svc := newService(repo, audiences, transport)

	if _, err := svc.SendCampaign(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := transport.Sent()[0].HTML
	if !strings.Contains(html, "http://example.test/campaigns/1/view\"") {
		t.Error("expected the permanent public view link in the email")
	}
	if strings.Contains(html, "preview_token") {
		t.Error("sent email must not carry a preview token link")
	}
}

func TestSendCampaignNoAudience(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(2, nil))
	svc := newService(repo, &mockAudienceRepo{}, mailer.NewMemory())

	_, err := svc.SendCampaign(2)
	var invalid *appErrors.ErrInvalidInput
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	c, _ := repo.GetByID(2)
	if c.Status != model.StatusDraft {
		t.Errorf("campaign without audience must stay draft, got %s", c.Status)
	}
}

func TestSendCampaignNoEligibleRecipients(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	audiences := &mockAudienceRepo{
		audiences: map[int]*model.Audience{10: {ID: 10}},
		members: map[int][]model.Contact{
			10: {{ID: 2, Email: "bob@example.com", Status: model.ContactInactive}},
		},
	}
	svc := newService(repo, audiences, mailer.NewMemory())

	_, err := svc.SendCampaign(1)
	var noRecipients *appErrors.ErrNoEligibleRecipients
	if !errors.As(err, &noRecipients) {
		t.Fatalf("expected ErrNoEligibleRecipients, got %v", err)
	}

	c, _ := repo.GetByID(1)
	if c.Status != model.StatusError {
		t.Errorf("expected status error, got %s", c.Status)
	}
	if c.Locked {
		t.Error("failed campaign must not be locked")
	}
}

func TestSendCampaignRejectsSecondSend(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	audiences := &mockAudienceRepo{
		audiences: map[int]*model.Audience{10: {ID: 10}},
		members: map[int][]model.Contact{
			10: {{ID: 1, Email: "alice@example.com", Status: model.ContactActive}},
		},
	}
	svc := newService(repo, audiences, mailer.NewMemory())

	if _, err := svc.SendCampaign(1); err != nil {
		t.Fatalf("first send failed: %v", err)
	}

	_, err := svc.SendCampaign(1)
	var alreadySent *appErrors.ErrAlreadySent
	if !errors.As(err, &alreadySent) {
		t.Fatalf("expected ErrAlreadySent, got %v", err)
	}
}

func TestSendCampaignRejectsWhileSending(t *testing.T) {
	c := draftCampaign(1, intPtr(10))
	c.Status = model.StatusSending
	repo := newMockCampaignRepo(c)
	svc := newService(repo, &mockAudienceRepo{}, mailer.NewMemory())

	_, err := svc.SendCampaign(1)
	var alreadySending *appErrors.ErrAlreadySending
	if !errors.As(err, &alreadySending) {
		t.Fatalf("expected ErrAlreadySending, got %v", err)
	}
}

func TestSendCampaignCollectsTransportFailures(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	audiences := &mockAudienceRepo{
		audiences: map[int]*model.Audience{10: {ID: 10}},
		members: map[int][]model.Contact{
			10: {
				{ID: 1, Email: "alice@example.com", Status: model.ContactActive},
				{ID: 2, Email: "carol@example.com", Status: model.ContactActive},
			},
		},
	}
	transport := mailer.NewMemory()
	transport.FailFor["carol@example.com"] = true
	svc := newService(repo, audiences, transport)

	report, err := svc.SendCampaign(1)
	if err != nil {
		t.Fatalf("partial failure must not abort the batch: %v", err)
	}
	if report.SentCount != 1 || report.FailedCount != 1 {
		t.Errorf("expected 1 sent / 1 failed, got %d / %d", report.SentCount, report.FailedCount)
	}

	c, _ := repo.GetByID(1)
	if c.Status != model.StatusSent {
		t.Errorf("expected status sent, got %s", c.Status)
	}
	if len(c.FailedRecipients) != 1 || c.FailedRecipients[0] != "carol@example.com" {
		t.Errorf("expected carol in failed recipients, got %v", c.FailedRecipients)
	}
}

func TestSendCampaignAllDeliveriesFail(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	audiences := &mockAudienceRepo{
		audiences: map[int]*model.Audience{10: {ID: 10}},
		members: map[int][]model.Contact{
			10: {{ID: 1, Email: "alice@example.com", Status: model.ContactActive}},
		},
	}
	transport := mailer.NewMemory()
	transport.FailFor["alice@example.com"] = true
	svc := newService(repo, audiences, transport)

	_, err := svc.SendCampaign(1)
	var allFailed *appErrors.ErrAllDeliveriesFailed
	if !errors.As(err, &allFailed) {
		t.Fatalf("expected ErrAllDeliveriesFailed, got %v", err)
	}

	c, _ := repo.GetByID(1)
	if c.Status != model.StatusError {
		t.Errorf("expected status error, got %s", c.Status)
	}
}

func TestSendTestDoesNotTouchState(t *testing.T) {
	repo := newMockCampaignRepo(draftCampaign(1, intPtr(10)))
	transport := mailer.NewMemory()
	svc := newService(repo, &mockAudienceRepo{}, transport)

	for i := 0; i < 3; i++ {
		if err := svc.SendTest(1, "editor@example.com"); err != nil {
			t.Fatalf("test send %d failed: %v", i, err)
		}
	}

	c, _ := repo.GetByID(1)
	if c.Status != model.StatusDraft || c.Published || c.Locked || c.SentCount != 0 {
		t.Errorf("test sends must not mutate campaign state, got %+v", c)
	}

	sent := transport.Sent()
	if len(sent) != 3 {
		t.Fatalf("expected 3 test deliveries, got %d", len(sent))
	}
	if sent[0].Subject != "[DRAFT TEST] March Update" {
		t.Errorf("expected draft test subject, got %q", sent[0].Subject)
	}
	if !strings.Contains(sent[0].HTML, "preview_token=") {
		t.Error("draft test email should carry the tokenized view link")
	}
}

func TestSendTestPublishedSubject(t *testing.T) {
	c := draftCampaign(1, nil)
	c.Status = model.StatusSent
	c.Published = true
	c.Locked = true
	repo := newMockCampaignRepo(c)
	transport := mailer.NewMemory()
	svc := newService(repo, &mockAudienceRepo{}, transport)

	if err := svc.SendTest(1, "editor@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := transport.Sent()[0].Subject; got != "[TEST] March Update" {
		t.Errorf("expected published test subject, got %q", got)
	}
}

func TestSendTestRejectsBadAddress(t *testing.T) {
	svc := newService(newMockCampaignRepo(draftCampaign(1, nil)), &mockAudienceRepo{}, mailer.NewMemory())

	err := svc.SendTest(1, "not-an-address")
	var invalid *appErrors.ErrInvalidInput
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateCampaignRejectsLocked(t *testing.T) {
	c := draftCampaign(1, nil)
	c.Status = model.StatusSent
	c.Locked = true
	repo := newMockCampaignRepo(c)
	svc := newService(repo, &mockAudienceRepo{}, mailer.NewMemory())

	err := svc.UpdateCampaign(&model.Campaign{ID: 1, Title: "Rewritten"})
	var locked *appErrors.ErrCampaignLocked
	if !errors.As(err, &locked) {
		t.Fatalf("expected ErrCampaignLocked, got %v", err)
	}

	current, _ := repo.GetByID(1)
	if current.Title != "March Update" {
		t.Errorf("locked campaign title must not change, got %q", current.Title)
	}
}

func TestViewOnlineURLByStatus(t *testing.T) {
	repo := newMockCampaignRepo()
	svc := newService(repo, &mockAudienceRepo{}, mailer.NewMemory())

	draft := draftCampaign(7, nil)
	draftURL := svc.ViewOnlineURL(draft)
	wantToken := svc.Tokens.Generate(7, draft.CreatedAt)
	if draftURL != "http://example.test/campaigns/7/view?preview_token="+wantToken {
		t.Errorf("unexpected draft URL: %s", draftURL)
	}

	draft.Published = true
	if got := svc.ViewOnlineURL(draft); got != "http://example.test/campaigns/7/view" {
		t.Errorf("unexpected published URL: %s", got)
	}
}

