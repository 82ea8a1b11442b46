package repository

import (
	"database/sql"

	appErrors "github.com/plumepress/newsletter-backend/internal/errors"
	"github.com/plumepress/newsletter-backend/internal/model"
)

type AudienceRepositoryInterface interface {
	Create(a *model.Audience) error
	GetByID(id int) (*model.Audience, error)
	ListAll() ([]model.Audience, error)
	Delete(id int) error
	AddContact(audienceID, contactID int) error
	RemoveContact(audienceID, contactID int) error

	// ActiveContacts resolves the audience into its sendable membership,
	// ordered by name.
	ActiveContacts(audienceID int) ([]model.Contact, error)
}

type AudienceRepository struct {
	DB *sql.DB

	// Campaigns is consulted before deletion: an audience referenced by any
	// campaign cannot be removed.
	Campaigns CampaignRepositoryInterface
}

func (r *AudienceRepository) Create(a *model.Audience) error {
	query := `
        INSERT INTO audiences (name, description)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, a.Name, a.Description).Scan(&a.ID, &a.CreatedAt)
}

func (r *AudienceRepository) GetByID(id int) (*model.Audience, error) {
	query := `
        SELECT a.id, a.name, a.description, COUNT(ac.contact_id), a.created_at
        FROM audiences a
        LEFT JOIN audience_contacts ac ON a.id = ac.audience_id
        WHERE a.id = $1
        GROUP BY a.id
    `
	var a model.Audience
	err := r.DB.QueryRow(query, id).Scan(&a.ID, &a.Name, &a.Description, &a.ContactCount, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewAudienceNotFound(id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *AudienceRepository) ListAll() ([]model.Audience, error) {
	query := `
        SELECT a.id, a.name, a.description, COUNT(ac.contact_id), a.created_at
        FROM audiences a
        LEFT JOIN audience_contacts ac ON a.id = ac.audience_id
        GROUP BY a.id
        ORDER BY a.name
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audiences := []model.Audience{}
	for rows.Next() {
		var a model.Audience
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.ContactCount, &a.CreatedAt); err != nil {
			return nil, err
		}
		audiences = append(audiences, a)
	}
	return audiences, rows.Err()
}

func (r *AudienceRepository) Delete(id int) error {
	if r.Campaigns != nil {
		n, err := r.Campaigns.CountByAudience(id)
		if err != nil {
			return err
		}
		if n > 0 {
			return appErrors.NewAudienceInUse(id, n)
		}
	}
	res, err := r.DB.Exec(`DELETE FROM audiences WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewAudienceNotFound(id)
	}
	return nil
}

func (r *AudienceRepository) AddContact(audienceID, contactID int) error {
	query := `
        INSERT INTO audience_contacts (audience_id, contact_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	_, err := r.DB.Exec(query, audienceID, contactID)
	return err
}

func (r *AudienceRepository) RemoveContact(audienceID, contactID int) error {
	_, err := r.DB.Exec(`DELETE FROM audience_contacts WHERE audience_id=$1 AND contact_id=$2`, audienceID, contactID)
	return err
}

func (r *AudienceRepository) ActiveContacts(audienceID int) ([]model.Contact, error) {
	query := `
        SELECT c.id, c.name, c.email, c.status, c.created_at
        FROM contacts c
        INNER JOIN audience_contacts ac ON c.id = ac.contact_id
        WHERE ac.audience_id = $1 AND c.status = 'active'
        ORDER BY c.name
    `
	rows, err := r.DB.Query(query, audienceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var _ AudienceRepositoryInterface = (*AudienceRepository)(nil)
