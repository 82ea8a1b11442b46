// The seeder loads contacts, audiences and memberships from a YAML fixture.
package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/plumepress/newsletter-backend/internal/config"
	"github.com/plumepress/newsletter-backend/internal/db"
)

type fixture struct {
	Contacts []struct {
		Name   string `yaml:"name"`
		Email  string `yaml:"email"`
		Status string `yaml:"status"`
	} `yaml:"contacts"`
	Audiences []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Contacts    []string `yaml:"contacts"` // member emails
	} `yaml:"audiences"`
}

func main() {
	path := flag.String("fixture", "cmd/seeder/seed.yaml", "path to the YAML fixture")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()
	if err := db.CreateTables(conn); err != nil {
		log.Fatalf("schema: %v", err)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		log.Fatalf("parse fixture: %v", err)
	}

	if err := seed(conn, fx); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d contacts and %d audiences", len(fx.Contacts), len(fx.Audiences))
}

func seed(conn *sql.DB, fx fixture) error {
	for _, c := range fx.Contacts {
		status := c.Status
		if status == "" {
			status = "active"
		}
		_, err := conn.Exec(`
            INSERT INTO contacts (name, email, status)
            VALUES ($1, $2, $3)
            ON CONFLICT (email) DO NOTHING
        `, c.Name, c.Email, status)
		if err != nil {
			return err
		}
	}

	for _, a := range fx.Audiences {
		var audienceID int
		err := conn.QueryRow(`
            INSERT INTO audiences (name, description)
            VALUES ($1, $2)
            RETURNING id
        `, a.Name, a.Description).Scan(&audienceID)
		if err != nil {
			return err
		}

		for _, email := range a.Contacts {
			var contactID int
			err := conn.QueryRow(`SELECT id FROM contacts WHERE email=$1`, email).Scan(&contactID)
			if err != nil {
				log.Printf("audience %q: no contact with email %s, skipping", a.Name, email)
				continue
			}
			_, err = conn.Exec(`
                INSERT INTO audience_contacts (audience_id, contact_id)
                VALUES ($1, $2)
                ON CONFLICT DO NOTHING
            `, audienceID, contactID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
