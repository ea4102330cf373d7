package adapthttp

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"oncocare/internal/app"
	"oncocare/internal/catalog"
	"oncocare/internal/domain"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	mood     *app.MoodTracker
	meds     *app.MedicationRegistry
	authSvc  *app.AuthService
	symptoms *catalog.Catalog
	log      *zap.Logger

	experiences *catalog.Experiences
	contact     *app.ContactService
	expert      *app.ExpertService

	guard    domain.SubmissionGuard
	guardTTL time.Duration

	oidcConfig  OIDCConfig
	webDir      string
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(mt *app.MoodTracker, mr *app.MedicationRegistry, as *app.AuthService, symptoms *catalog.Catalog, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		mood:     mt,
		meds:     mr,
		authSvc:  as,
		symptoms: symptoms,
		log:      log,
	}
}

// WithGuard rejects repeated mutations that reuse an Idempotency-Key within ttl.
func (s *Server) WithGuard(g domain.SubmissionGuard, ttl time.Duration) *Server {
	s.guard = g
	s.guardTTL = ttl
	return s
}

// WithExperiences serves the patient stories.
func (s *Server) WithExperiences(e *catalog.Experiences) *Server {
	s.experiences = e
	return s
}

// WithInquiries enables the contact form and the ask-an-expert routes.
func (s *Server) WithInquiries(contact *app.ContactService, expert *app.ExpertService) *Server {
	s.contact = contact
	s.expert = expert
	return s
}

// WithOIDC enables the SSO login routes.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithWebDir serves a single-page app from dir for non-API paths.
func (s *Server) WithWebDir(dir string) *Server {
	s.webDir = dir
	return s
}

// WithoutAuth disables session checks. Requests run unscoped.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	public.HandleFunc("/config", s.handleConfig)
	public.HandleFunc("/auth/login", s.handleLogin)
	public.HandleFunc("/auth/register", s.handleRegister)
	public.HandleFunc("/auth/logout", s.handleLogout)
	public.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	public.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api := http.NewServeMux()
	api.HandleFunc("/me", s.handleMe)
	api.HandleFunc("/mood/today", s.handleMoodToday)
	api.HandleFunc("/mood/history", s.handleMoodHistory)

	api.HandleFunc("/medications", s.handleMedications)
	api.HandleFunc("/medications/{id}", s.handleMedication)

	api.HandleFunc("/symptoms", s.handleSymptoms)
	api.HandleFunc("/symptoms/{id}", s.handleSymptom)

	api.HandleFunc("/experiences", s.handleExperiences)
	api.HandleFunc("/experiences/{id}", s.handleExperience)

	api.HandleFunc("/contact", s.handleContact)
	api.HandleFunc("/expert/categories", s.handleExpertCategories)
	api.HandleFunc("/expert/questions", s.handleExpertQuestions)

	protected := s.authMiddleware(s.guardMiddleware(api))
	for _, p := range []string{
		"/me", "/mood/", "/medications", "/medications/", "/symptoms", "/symptoms/",
		"/experiences", "/experiences/", "/contact", "/expert/",
	} {
		public.Handle(p, protected)
	}

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", public))
	root.Handle("/metrics", promhttp.Handler())
	if s.webDir != "" {
		root.Handle("/", spaFromDisk(s.webDir))
	}

	return s.loggingMiddleware(withNoCache(root))
}
