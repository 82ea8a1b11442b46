package repository

import (
	"database/sql"

	appErrors "github.com/plumepress/newsletter-backend/internal/errors"
	"github.com/plumepress/newsletter-backend/internal/model"
)

type ContactRepositoryInterface interface {
	Create(c *model.Contact) error
	GetByID(id int) (*model.Contact, error)
	ListAll() ([]model.Contact, error)
	Update(c *model.Contact) error
	Delete(id int) error
}

type ContactRepository struct {
	DB *sql.DB
}

func (r *ContactRepository) Create(c *model.Contact) error {
	if c.Status == "" {
		c.Status = model.ContactActive
	}
	query := `
        INSERT INTO contacts (name, email, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, c.Name, c.Email, c.Status).Scan(&c.ID, &c.CreatedAt)
}

func (r *ContactRepository) GetByID(id int) (*model.Contact, error) {
	query := `SELECT id, name, email, status, created_at FROM contacts WHERE id=$1`
	var c model.Contact
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewContactNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) ListAll() ([]model.Contact, error) {
	query := `SELECT id, name, email, status, created_at FROM contacts ORDER BY name`
	rows, err := r.DB.Query(query)
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

func (r *ContactRepository) Update(c *model.Contact) error {
	query := `UPDATE contacts SET name=$1, email=$2, status=$3 WHERE id=$4`
	res, err := r.DB.Exec(query, c.Name, c.Email, c.Status, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewContactNotFound(c.ID)
	}
	return nil
}

func (r *ContactRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewContactNotFound(id)
	}
	return nil
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
