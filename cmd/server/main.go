package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/plumepress/newsletter-backend/internal/config"
	"github.com/plumepress/newsletter-backend/internal/db"
	"github.com/plumepress/newsletter-backend/internal/handler"
	"github.com/plumepress/newsletter-backend/internal/mailer"
	"github.com/plumepress/newsletter-backend/internal/repository"
	"github.com/plumepress/newsletter-backend/internal/service"
	"github.com/plumepress/newsletter-backend/internal/token"
)

func main() {
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

	campaignRepo := &repository.CampaignRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	audienceRepo := &repository.AudienceRepository{DB: conn, Campaigns: campaignRepo}

	var transport mailer.Transport
	switch cfg.MailDriver {
	case "amqp":
		amqpTransport, err := mailer.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			log.Fatalf("amqp: %v", err)
		}
		defer amqpTransport.Close()
		transport = amqpTransport
	default:
		transport = &mailer.SMTP{
			Addr:      cfg.SMTPAddr,
			FromName:  cfg.FromName,
			FromEmail: cfg.FromEmail,
		}
	}

	tokens := token.NewService(cfg.PreviewSecret)

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		AudienceRepo: audienceRepo,
		Transport:    transport,
		Tokens:       tokens,
		BaseURL:      cfg.BaseURL,
		SiteName:     cfg.SiteName,
		PaceDelay:    cfg.PaceDelay,
	}

	campaignHandler := &handler.CampaignHandler{
		Service:   campaignService,
		Tokens:    tokens,
		EditorKey: cfg.EditorKey,
	}
	contactHandler := &handler.ContactHandler{Repo: contactRepo}
	audienceHandler := &handler.AudienceHandler{Repo: audienceRepo}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public view endpoint; access control happens inside.
	r.Get("/campaigns/{id}/view", campaignHandler.ViewCampaign)

	// Admin API
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireEditor(cfg.EditorKey))

		r.Post("/campaigns", campaignHandler.CreateCampaign)
		r.Get("/campaigns", campaignHandler.ListCampaigns)
		r.Get("/campaigns/{id}", campaignHandler.GetCampaign)
		r.Put("/campaigns/{id}", campaignHandler.UpdateCampaign)
		r.Get("/campaigns/{id}/preview-link", campaignHandler.PreviewLink)
		r.Post("/campaigns/{id}/send", campaignHandler.SendCampaign)
		r.Post("/campaigns/{id}/test-send", campaignHandler.SendTest)

		r.Post("/contacts", contactHandler.CreateContact)
		r.Get("/contacts", contactHandler.ListContacts)
		r.Get("/contacts/{id}", contactHandler.GetContact)
		r.Put("/contacts/{id}", contactHandler.UpdateContact)
		r.Delete("/contacts/{id}", contactHandler.DeleteContact)

		r.Post("/audiences", audienceHandler.CreateAudience)
		r.Get("/audiences", audienceHandler.ListAudiences)
		r.Get("/audiences/{id}", audienceHandler.GetAudience)
		r.Delete("/audiences/{id}", audienceHandler.DeleteAudience)
		r.Put("/audiences/{id}/contacts/{contactID}", audienceHandler.AddContact)
		r.Delete("/audiences/{id}/contacts/{contactID}", audienceHandler.RemoveContact)
	})

	log.Printf("server running on %s (mail driver: %s)", cfg.HTTPAddr, cfg.MailDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
