package router

import (
	"net/http"

	mem "medivault/internal/adapters/storage/memory"
	pg "medivault/internal/adapters/storage/postgres"
	_ "medivault/internal/docs"
	"medivault/internal/domain/access"
	"medivault/internal/domain/accessrequests"
	"medivault/internal/domain/audit"
	"medivault/internal/domain/documents"
	"medivault/internal/domain/emergency"
	"medivault/internal/domain/notifications"
	"medivault/internal/domain/users"
	"medivault/internal/middleware"
	"medivault/internal/platform/logger"
	"medivault/internal/ports/auth"
	"medivault/internal/ports/identity"
	"medivault/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sqlx.DB

	Logger logger.Logger

	// Directory externo de identidades. Nil => usuarios locales.
	Directory identity.Directory

	// Relay opcional de notificaciones (webhook); las in-app se guardan igual.
	Relay  notify.Notifier
	Mailer notify.Mailer
}

type repos struct {
	users         users.Repository
	requests      accessrequests.Repository
	emergency     emergency.Repository
	audit         audit.Repository
	notifications notifications.Repository
	documents     documents.Repository
}

func newRepos(db *sqlx.DB) repos {
	if db != nil {
		return repos{
			users:         pg.NewUsersRepo(db),
			requests:      pg.NewAccessRequestsRepo(db),
			emergency:     pg.NewEmergencyRepo(db),
			audit:         pg.NewAuditRepo(db),
			notifications: pg.NewNotificationsRepo(db),
			documents:     pg.NewDocumentsRepo(db),
		}
	}
	return repos{
		users:         mem.NewUserRepo(),
		requests:      mem.NewAccessRequestRepo(),
		emergency:     mem.NewEmergencyRepo(),
		audit:         mem.NewAuditRepo(),
		notifications: mem.NewNotificationRepo(),
		documents:     mem.NewDocumentRepo(),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := newRepos(opts.DB)

	// Services por módulo
	usersSvc := users.NewService(rp.users, log)
	var dir identity.Directory = usersSvc
	if opts.Directory != nil {
		dir = opts.Directory
	}

	auditSvc := audit.NewService(rp.audit, log)
	notificationsSvc := notifications.NewService(rp.notifications, opts.Relay, log)

	requestsSvc := accessrequests.NewService(rp.requests, accessrequests.Deps{
		Directory: dir,
		Audit:     auditSvc,
		Notifier:  notificationsSvc,
		Mailer:    opts.Mailer,
		Log:       log,
	})
	emergencySvc := emergency.NewService(rp.emergency, emergency.Deps{
		Directory: dir,
		Audit:     auditSvc,
		Notifier:  notificationsSvc,
		Mailer:    opts.Mailer,
		Log:       log,
	})
	evaluator := access.NewEvaluator(requestsSvc, emergencySvc)
	documentsSvc := documents.NewService(rp.documents, dir, evaluator, auditSvc, log)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	accessrequests.RegisterRoutes(r, requestsSvc)
	emergency.RegisterRoutes(r, emergencySvc)
	documents.RegisterRoutes(r, documentsSvc)
	audit.RegisterRoutes(r, auditSvc)
	notifications.RegisterRoutes(r, notificationsSvc)

	return r
}
