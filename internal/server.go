package internal

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"staffing-api/internal/config"
	"staffing-api/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Server struct {
	DB      *sql.DB
	Pool    *pgxpool.Pool
	Router  *chi.Mux
	Metrics *Metrics
}

func NewServer(dsn string, cfg *config.Config) *Server {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Database ping failed:", err)
	}

	// Separate pgxpool for the roster importer
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal("Failed to create pgxpool:", err)
	}

	s := &Server{
		DB:      db,
		Pool:    pool,
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
	}

	// Middleware has to be registered before any routes.
	if os.Getenv("ENABLE_METRICS") == "true" {
		s.Router.Use(s.Metrics.Middleware())
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", s.dbPing)

	if os.Getenv("ENABLE_METRICS") == "true" {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.mountRoutes(s.Router)

	return s
}

// Close shuts down the server's database handles.
func (s *Server) Close(ctx context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("db: ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) mountRoutes(r chi.Router) {
	r.Get("/projects", s.listProjects)
	r.Post("/projects", s.createProject)
	r.Get("/projects/{id}", s.getProject)
	r.Delete("/projects/{id}", s.deleteProject)

	r.Get("/employees", s.listEmployees)
	r.Post("/employees", s.createEmployee)
	r.Get("/employees/{id}", s.getEmployee)
	r.Delete("/employees/{id}", s.deleteEmployee)

	r.Get("/assignments", s.listAssignments)
	r.Post("/assignments", s.createAssignment)
	r.Get("/assignments/{id}", s.getAssignment)
	r.Delete("/assignments/{id}", s.deleteAssignment)

	importsHandler := handlers.NewImportsHandler(s.Pool)
	r.Post("/imports/excel", importsHandler.UploadExcel)
}
