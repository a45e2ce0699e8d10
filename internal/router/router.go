package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "pet-inpatient-care/internal/adapters/storage/memory"
	pg "pet-inpatient-care/internal/adapters/storage/postgres"
	"pet-inpatient-care/internal/domain/admissions"
	"pet-inpatient-care/internal/domain/boxes"
	"pet-inpatient-care/internal/middleware"
	"pet-inpatient-care/internal/observability/metrics"
	"pet-inpatient-care/internal/ports/auth"
	"pet-inpatient-care/internal/ports/notify"
	"pet-inpatient-care/internal/ports/patients"
	"pet-inpatient-care/internal/ports/roles"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Roles        roles.Authorizer  // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Notifier notify.Notifier
	Patients patients.Registry
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		admissionsRepo admissions.Repository
		boxesRepo      boxes.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		admissionsRepo = pg.NewAdmissionsRepo(db)
		boxesRepo = pg.NewBoxesRepo(db)
	} else {
		admissionsRepo = mem.NewAdmissionsRepo()
		boxesRepo = mem.NewBoxesRepo()
	}

	// Services por módulo
	boxesSvc := boxes.NewService(boxesRepo)
	admissionsSvc := admissions.NewService(admissions.Deps{
		Repo:     admissionsRepo,
		Boxes:    boxesSvc,
		Patients: opts.Patients,
		Notifier: opts.Notifier,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})

	// Todo el módulo de internación exige rol de equipo
	r.Route("/internacao", func(ir chi.Router) {
		ir.Use(middleware.RequireRoles(opts.Roles, roles.Funcionario, roles.Admin, roles.AdminMaster))
		admissions.RegisterRoutes(ir, admissionsSvc)
		boxes.RegisterRoutes(ir, boxesSvc)
	})

	return r
}
