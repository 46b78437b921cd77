package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-health-core/docs"
	mem "pet-health-core/internal/adapters/storage/memory"
	pg "pet-health-core/internal/adapters/storage/postgres"
	"pet-health-core/internal/domain/owners"
	"pet-health-core/internal/domain/pets"
	"pet-health-core/internal/domain/records"
	"pet-health-core/internal/domain/reminders"
	"pet-health-core/internal/domain/sharelinks"
	"pet-health-core/internal/domain/wellness"
	"pet-health-core/internal/middleware"
	"pet-health-core/internal/platform/logger"
	"pet-health-core/internal/ports/auth"
	"pet-health-core/internal/ports/capabilities"
	"pet-health-core/internal/ports/ratelimit"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// nil => todos premium (modo dev).
	Premium capabilities.PremiumResolver
	// nil => sin límite en /share/{token}.
	Limiter  ratelimit.Limiter
	Notifier wellness.AlertNotifier
	Logger   logger.Logger

	// Origin de las URLs públicas de los links.
	ShareOrigin string
}

type repos struct {
	pets       pets.Repository
	records    records.Repository
	reminders  reminders.Repository
	owners     owners.Repository
	entries    wellness.EntryRepository
	alerts     wellness.AlertRepository
	shareLinks sharelinks.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			pets:       pg.NewPetsRepo(db),
			records:    pg.NewRecordsRepo(db),
			reminders:  pg.NewRemindersRepo(db),
			owners:     pg.NewOwnersRepo(db),
			entries:    pg.NewWellnessEntriesRepo(db),
			alerts:     pg.NewWellnessAlertsRepo(db),
			shareLinks: pg.NewShareLinksRepo(db),
		}
	}
	return repos{
		pets:       mem.NewPetRepo(),
		records:    mem.NewRecordRepo(),
		reminders:  mem.NewReminderRepo(),
		owners:     mem.NewOwnerRepo(),
		entries:    mem.NewWellnessEntryRepo(),
		alerts:     mem.NewWellnessAlertRepo(),
		shareLinks: mem.NewShareLinkRepo(),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	premium := opts.Premium
	if premium == nil {
		premium = capabilities.AllowAll{}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = wellness.NopNotifier{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := newRepos(opts.DB)

	// Services por módulo
	petsSvc := pets.NewService(rp.pets)
	recordsSvc := records.NewService(rp.records)
	remindersSvc := reminders.NewService(rp.reminders)
	ownersSvc := owners.NewService(rp.owners)
	wellnessSvc := wellness.NewService(rp.entries, rp.alerts, petsSvc,
		wellness.WithLogger(log.With(map[string]any{"module": "wellness"})),
		wellness.WithNotifier(notifier),
	)
	shareLog := log.With(map[string]any{"module": "sharelinks"})
	linksSvc := sharelinks.NewService(rp.shareLinks, petsSvc, shareLog)
	gateway := sharelinks.NewGateway(rp.shareLinks, sharelinks.Sources{
		Pets:      petsSvc,
		Records:   recordsSvc,
		Reminders: remindersSvc,
		Owners:    ownersSvc,
	}, shareLog)

	// Público: sin claims, con rate limit por IP.
	sharelinks.RegisterPublicRoutes(r, gateway, limiter, shareLog)

	// Rutas autenticadas
	r.Group(func(ar chi.Router) {
		ar.Use(middleware.AuthContext(opts.AuthVerifier, log))

		pets.RegisterRoutes(ar, petsSvc)
		owners.RegisterRoutes(ar, ownersSvc)
		records.RegisterRoutes(ar, recordsSvc, petsSvc)
		reminders.RegisterRoutes(ar, remindersSvc, petsSvc)
		wellness.RegisterRoutes(ar, wellnessSvc, premium)
		sharelinks.RegisterRoutes(ar, linksSvc, premium, opts.ShareOrigin)
	})

	return r
}
