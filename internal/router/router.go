package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "medalert/internal/adapters/storage/memory"
	pg "medalert/internal/adapters/storage/postgres"
	"medalert/internal/domain/medications"
	"medalert/internal/domain/medstatus"
	"medalert/internal/domain/reminders"
	"medalert/internal/domain/users"
	"medalert/internal/middleware"
	"medalert/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "medalert/docs" // registro del spec swagger generado
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (modo dev: respuestas sin token)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		usersRepo  users.Repository
		medsRepo   medications.Repository
		statusRepo medstatus.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("could not open DB_DSN, using in-memory storage", zap.Error(err))
			}
		}
	}

	if db != nil {
		usersRepo = pg.NewUsersRepo(db)
		medsRepo = pg.NewMedicationsRepo(db)
		statusRepo = pg.NewStatusRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		medsRepo = mem.NewMedicationsRepo()
		statusRepo = mem.NewStatusRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(usersRepo)
	medsSvc := medications.NewService(medsRepo)
	statusSvc := medstatus.NewService(statusRepo, medsSvc)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, opts.TokenIssuer)
	medications.RegisterRoutes(r, medsSvc)
	medstatus.RegisterRoutes(r, statusSvc)
	reminders.RegisterRoutes(r, medsSvc)

	return r
}
