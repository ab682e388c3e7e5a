package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"

	"inflow/internal/auth"
	"inflow/internal/authz"
	"inflow/internal/domain/attendance"
	"inflow/internal/domain/department"
	"inflow/internal/domain/employee"
	"inflow/internal/domain/evaluation"
	"inflow/internal/domain/payroll"
	"inflow/internal/domain/statistics"
	"inflow/internal/domain/vacation"
	"inflow/internal/platform/config"
	"inflow/internal/platform/db"
	"inflow/internal/platform/sms"
	"inflow/internal/platform/storage"
	attendancehandler "inflow/internal/transport/http/handlers/attendance"
	authhandler "inflow/internal/transport/http/handlers/auth"
	departmenthandler "inflow/internal/transport/http/handlers/department"
	employeehandler "inflow/internal/transport/http/handlers/employee"
	evaluationhandler "inflow/internal/transport/http/handlers/evaluation"
	payrollhandler "inflow/internal/transport/http/handlers/payroll"
	statisticshandler "inflow/internal/transport/http/handlers/statistics"
	vacationhandler "inflow/internal/transport/http/handlers/vacation"
	"inflow/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	files, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir failed: %v", err)
	}

	router := NewRouter(cfg, pool, files)

	log.Printf("inflow server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// NewRouter assembles the middleware chain and the API surface. The order
// matters: authentication only attaches identity, the authorization policy
// decides afterwards with the route table.
func NewRouter(cfg config.Config, pool *pgxpool.Pool, files storage.Store) http.Handler {
	codec := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	policy := authz.NewPolicy(authz.DefaultRules())
	sender := sms.New(cfg)

	employeeStore := employee.NewStore(pool)
	employeeService := employee.NewService(employeeStore, sender, files)
	departmentService := department.NewService(department.NewStore(pool))
	attendanceStore := attendance.NewStore(pool)
	vacationStore := vacation.NewStore(pool)
	evaluationStore := evaluation.NewStore(pool)
	payrollService := payroll.NewService(payroll.NewStore(pool), files)
	statisticsStore := statistics.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(httprate.Limit(cfg.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(codec, employeeStore, policy.Public))
	router.Use(middleware.Authorize(policy))

	router.Get("/actuator/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		authHandler := authhandler.NewHandler(codec, employeeStore, sender)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/auth/request-reset", authHandler.HandleRequestReset)
		r.Post("/auth/reset", authHandler.HandleResetPassword)

		employeehandler.NewHandler(employeeService).RegisterRoutes(r)
		departmenthandler.NewHandler(departmentService).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceStore).RegisterRoutes(r)
		vacationhandler.NewHandler(vacationStore).RegisterRoutes(r)
		evaluationhandler.NewHandler(evaluationStore).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService).RegisterRoutes(r)
		statisticshandler.NewHandler(statisticsStore).RegisterRoutes(r)
	})

	router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.UploadDir))))

	return router
}
