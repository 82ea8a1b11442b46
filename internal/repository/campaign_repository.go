package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/plumepress/newsletter-backend/internal/errors"
	"github.com/plumepress/newsletter-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error)
	Update(c *model.Campaign) error
	CountByAudience(audienceID int) (int, error)

	// State machine transitions
	ClaimSending(id int) error
	Publish(id int) error
	MarkSent(id, sentCount int, failed []string, sentAt time.Time) error
	MarkError(id int) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, title, blocks, status, published, locked, sent_count, sent_at, audience_id, failed_recipients, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.Title, &c.Blocks, &c.Status, &c.Published, &c.Locked,
		&c.SentCount, &c.SentAt, &c.AudienceID,
		pq.Array(&c.FailedRecipients), &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	query := `
        INSERT INTO campaigns (title, blocks, status, audience_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, c.Title, c.Blocks, c.Status, c.AudienceID).Scan(&c.ID, &c.CreatedAt)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	if status != "" {
		countQuery += " AND status=$1"
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// Update writes title, blocks and audience. The WHERE clause is the content
// immutability boundary: a locked row is never touched, whatever the caller
// read earlier.
func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET title=$1, blocks=$2, audience_id=$3, updated_at=NOW()
        WHERE id=$4 AND NOT locked
    `
	res, err := r.DB.Exec(query, c.Title, c.Blocks, c.AudienceID, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		current, err := r.GetByID(c.ID)
		if err != nil {
			return err
		}
		if current.Locked {
			return appErrors.NewCampaignLocked(c.ID)
		}
		return nil
	}
	return nil
}

func (r *CampaignRepository) CountByAudience(audienceID int) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns WHERE audience_id=$1`, audienceID).Scan(&n)
	return n, err
}

// ClaimSending is the single serialization point for concurrent sends: the
// conditional update moves exactly one request's campaign from draft (or a
// retryable error state) into sending. Everyone else loses the race and is
// told why.
func (r *CampaignRepository) ClaimSending(id int) error {
	query := `
        UPDATE campaigns
        SET status='sending', updated_at=NOW()
        WHERE id=$1 AND status IN ('draft', 'error') AND NOT locked
    `
	res, err := r.DB.Exec(query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	current, err := r.GetByID(id)
	if err != nil {
		return err
	}
	switch current.Status {
	case model.StatusSending:
		return appErrors.NewAlreadySending(id)
	case model.StatusSent:
		return appErrors.NewAlreadySent(id)
	default:
		return appErrors.NewCampaignLocked(id)
	}
}

// Publish flips the campaign public. Called before the final email render so
// the embedded view-online link is the permanent one.
func (r *CampaignRepository) Publish(id int) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET published=TRUE, updated_at=NOW() WHERE id=$1`, id)
	return err
}

// MarkSent records the terminal success state as one write: status, counts,
// timestamp and the lock land together, and only from sending.
func (r *CampaignRepository) MarkSent(id, sentCount int, failed []string, sentAt time.Time) error {
	query := `
        UPDATE campaigns
        SET status='sent', published=TRUE, locked=TRUE,
            sent_count=$2, sent_at=$3, failed_recipients=$4, updated_at=NOW()
        WHERE id=$1 AND status='sending'
    `
	if failed == nil {
		failed = []string{}
	}
	res, err := r.DB.Exec(query, id, sentCount, sentAt, pq.Array(failed))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("campaign %d is not in sending state", id)
	}
	return nil
}

func (r *CampaignRepository) MarkError(id int) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET status='error', updated_at=NOW() WHERE id=$1 AND NOT locked`, id)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
