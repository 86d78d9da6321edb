package app

import (
	"net/http"
	"time"

	"nexus-backend/internal/auth"
	"nexus-backend/internal/chronicle"
	"nexus-backend/internal/config"
	"nexus-backend/internal/connections"
	"nexus-backend/internal/contacts"
	"nexus-backend/internal/database"
	"nexus-backend/internal/emails"
	"nexus-backend/internal/health"
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/profiles"
	"nexus-backend/internal/synergy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); Redis client also feeds the health marker
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Health request marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Response formatter + tracing + route logger
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// --- Health (no auth; errors/reset behind admin key) ---
	var dbPinger health.DBPinger
	if db != nil {
		dbPinger = &gormDBPinger{db: db}
	}
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             dbPinger,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/errors", healthHandlers.Errors)
	app.Get("/health/reset", healthHandlers.Reset)

	// --- Auth (no auth middleware) ---
	var finder auth.ProfileFinder
	if db != nil {
		finder = &auth.GormProfileFinder{DB: db}
	}
	var connService *connections.Service
	if db != nil {
		connService = &connections.Service{DB: db}
	}
	authHandlers := &auth.Handlers{
		Finder: finder,
		Exchanger: &auth.SupabaseClient{
			BaseURL:   cfg.SupabaseURL,
			SecretKey: cfg.SupabaseSecretKey,
			Client:    &http.Client{Timeout: 10 * time.Second},
		},
		DB:     db,
		Rdb:    rdb,
		Config: sessionCfg,
	}
	if connService != nil {
		authHandlers.Redeemer = connService
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)
	app.Get("/auth/callback", authHandlers.Callback)

	// --- Synergy (raw JSON contract, auth checked in handler) ---
	synergyHandlers := &synergy.Handlers{
		Service: &synergy.Service{
			Client: &synergy.HTTPClient{
				BaseURL: cfg.CompletionBaseURL,
				APIKey:  cfg.CompletionAPIKey,
			},
		},
	}
	app.Post("/api/ai/synergy", synergyHandlers.Generate)

	mailer := &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		// Profiles: signup is public, the rest requires auth
		profileService := &profiles.Service{DB: db}
		profileHandlers := &profiles.Handlers{Service: profileService, Mailer: mailer}
		app.Post("/api/v1/profiles/create-profile", profileHandlers.CreateProfile)
		profileGroup := app.Group("/api/v1/profiles", middleware.RequireAuth())
		profileGroup.Get("/me", profileHandlers.Me)
		profileGroup.Put("/me", profileHandlers.UpdateMe)
		profileGroup.Get("/view/:id", profileHandlers.View)

		// Connections
		connHandlers := &connections.Handlers{Service: connService, Mailer: mailer, InviteBaseURL: cfg.InviteBaseURL}
		connGroup := app.Group("/api/v1/connections", middleware.RequireAuth())
		connGroup.Post("/create-invite", connHandlers.CreateInvite)
		connGroup.Post("/redeem", connHandlers.Redeem)
		connGroup.Get("/list", connHandlers.List)
		connGroup.Get("/pending", connHandlers.Pending)

		// Contacts
		contactService := &contacts.Service{DB: db}
		contactHandlers := &contacts.Handlers{Service: contactService}
		contactGroup := app.Group("/api/v1/contacts", middleware.RequireAuth())
		contactGroup.Post("/create-contact", contactHandlers.CreateContact)
		contactGroup.Get("/list-contacts", contactHandlers.ListContacts)
		contactGroup.Get("/view-contact/:id", contactHandlers.ViewContact)
		contactGroup.Put("/update-contact/:id", contactHandlers.UpdateContact)
		contactGroup.Delete("/remove-contact/:id", contactHandlers.RemoveContact)

		// Chronicle
		chronicleService := &chronicle.Service{DB: db}
		chronicleHandlers := &chronicle.Handlers{Service: chronicleService}
		chronicleGroup := app.Group("/api/v1/chronicle", middleware.RequireAuth())
		chronicleGroup.Post("/create-entry", chronicleHandlers.CreateEntry)
		chronicleGroup.Get("/list-entries", chronicleHandlers.ListEntries)
		chronicleGroup.Put("/update-entry/:id", chronicleHandlers.UpdateEntry)
		chronicleGroup.Delete("/remove-entry/:id", chronicleHandlers.RemoveEntry)
		chronicleGroup.Post("/create-place", chronicleHandlers.CreatePlace)
		chronicleGroup.Get("/list-places", chronicleHandlers.ListPlaces)
		chronicleGroup.Post("/create-work-entry", chronicleHandlers.CreateWorkEntry)
		chronicleGroup.Get("/list-work-entries", chronicleHandlers.ListWorkEntries)
		chronicleGroup.Put("/update-work-entry/:id", chronicleHandlers.UpdateWorkEntry)
	}

	return app, db, rdb, nil
}

// Handler returns an http.Handler for serverless hosting (Fiber app as net/http handler).
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
