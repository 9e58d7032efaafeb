// Package devserver is an in-memory implementation of the Smart MCQ backend
// API for local development and tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/model"
)

// Version is the API version the dev server reports.
const Version = "1.4.0"

// Options configures a Server.
type Options struct {
	Secret      string
	TokenTTL    time.Duration
	CORSOrigins []string
	// Quiet disables request logging.
	Quiet bool
	// SimilarityThreshold overrides DefaultReportThreshold.
	SimilarityThreshold float64
}

// Server serves the backend API from a Dataset.
type Server struct {
	data      *Dataset
	signer    *auth.Signer
	threshold float64
	router    chi.Router
}

type ctxKey struct{}

// New builds the routes for data.
func New(data *Dataset, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 8 * time.Hour
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultReportThreshold
	}
	s := &Server{
		data:      data,
		signer:    auth.NewSigner(opts.Secret, "smartmcq-devserver", opts.TokenTTL),
		threshold: opts.SimilarityThreshold,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", s.handleToken)
		r.Get("/version", s.handleVersion)

		r.Group(func(pr chi.Router) {
			pr.Use(s.requireToken)

			pr.Get("/courses", s.handleCourses)
			pr.Route("/courses/{courseID}", func(cr chi.Router) {
				cr.Get("/", s.handleCourse)
				cr.Get("/question-banks", s.handleBanks)
				cr.Get("/tests", s.handleTests)
				cr.Post("/tests", s.handleCreateTest)
				cr.Post("/tests/similarity-check", s.handleSimilarity)
				cr.Get("/tests/{testID}", s.handleTest)
				cr.Put("/tests/{testID}", s.handleUpdateTest)
			})
			pr.Get("/question-banks/{bankID}/questions", s.handleBankQuestions)
			pr.Get("/questions/{questionID}", s.handleQuestion)
			pr.Put("/questions/{questionID}", s.handleUpdateQuestion)
		})
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			respondDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		claims, err := s.signer.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			respondDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	role, err := s.data.Authenticate(req.Username, req.Password)
	if err != nil {
		respondDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	token, err := s.signer.Issue(req.Username, role)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"version": Version})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.Courses())
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.data.Course(chi.URLParam(r, "courseID"))
	respondResult(w, http.StatusOK, c, err)
}

func (s *Server) handleBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.data.Banks(chi.URLParam(r, "courseID"))
	respondResult(w, http.StatusOK, banks, err)
}

func (s *Server) handleBankQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.data.BankQuestions(chi.URLParam(r, "bankID"))
	respondResult(w, http.StatusOK, qs, err)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.data.Question(chi.URLParam(r, "questionID"))
	respondResult(w, http.StatusOK, q, err)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var in model.Question
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	q, err := s.data.UpdateQuestion(chi.URLParam(r, "questionID"), in)
	respondResult(w, http.StatusOK, q, err)
}

func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	tests, err := s.data.Tests(chi.URLParam(r, "courseID"))
	respondResult(w, http.StatusOK, tests, err)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	t, err := s.data.Test(chi.URLParam(r, "courseID"), chi.URLParam(r, "testID"))
	respondResult(w, http.StatusOK, t, err)
}

func (s *Server) handleCreateTest(w http.ResponseWriter, r *http.Request) {
	var in model.TestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := s.data.CreateTest(chi.URLParam(r, "courseID"), in)
	respondResult(w, http.StatusCreated, t, err)
}

func (s *Server) handleUpdateTest(w http.ResponseWriter, r *http.Request) {
	var in model.TestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := s.data.UpdateTest(chi.URLParam(r, "courseID"), chi.URLParam(r, "testID"), in)
	respondResult(w, http.StatusOK, t, err)
}

func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionIDs   []string `json:"question_ids"`
		ExcludeTestID string   `json:"exclude_test_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	courseID := chi.URLParam(r, "courseID")
	if _, err := s.data.Course(courseID); err != nil {
		respondResult(w, http.StatusOK, nil, err)
		return
	}
	report := CheckSimilarity(s.data.Lookup(req.QuestionIDs), s.data.AllTests(courseID), s.threshold, req.ExcludeTestID)
	respondJSON(w, http.StatusOK, report)
}

func respondResult(w http.ResponseWriter, status int, v any, err error) {
	var inputErr InputError
	switch {
	case err == nil:
		respondJSON(w, status, v)
	case errors.Is(err, ErrNotFound):
		respondDetail(w, http.StatusNotFound, "Not found")
	case errors.As(err, &inputErr):
		respondDetail(w, http.StatusBadRequest, inputErr.Error())
	default:
		respondDetail(w, http.StatusInternalServerError, err.Error())
	}
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
