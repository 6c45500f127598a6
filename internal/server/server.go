// Package server wires the HTTP surface: public catalog, blog and inquiry
// endpoints plus the JWT-protected staff API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cascade/internal/intake"
	"cascade/internal/services"
)

// Server holds the service dependencies behind the HTTP handlers
type Server struct {
	health  *services.HealthService
	auth    *services.AuthService
	catalog *services.CatalogService
	blog    *services.BlogService
	inquiry *services.InquiryService
	intake  *intake.Pipeline
}

// New creates a server over the given services
func New(
	health *services.HealthService,
	auth *services.AuthService,
	catalog *services.CatalogService,
	blog *services.BlogService,
	inquiry *services.InquiryService,
	pipeline *intake.Pipeline,
) *Server {
	return &Server{
		health:  health,
		auth:    auth,
		catalog: catalog,
		blog:    blog,
		inquiry: inquiry,
		intake:  pipeline,
	}
}

// Routes builds the API router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/login", s.handleLogin)
		r.With(s.requireAuth).Get("/auth/me", s.handleMe)

		r.Get("/services", s.handleListServices)
		r.Get("/services/navigation", s.handleNavigation)
		r.Get("/services/categories", s.handleListServiceCategories)
		r.Get("/services/{slug}", s.handleGetService)

		r.Post("/inquiries/contact", s.handleSubmitContact)
		r.Post("/inquiries/service", s.handleSubmitService)

		r.Get("/blog/posts", s.handleListPosts)
		r.Get("/blog/posts/{slug}", s.handleGetPost)
		r.Post("/blog/posts/{slug}/comments", s.handleSubmitComment)
		r.Get("/blog/categories", s.handleListBlogCategories)

		// Staff API
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(requireStaff)

			r.Get("/contact-inquiries", s.handleListContactInquiries)
			r.Get("/contact-inquiries/{id}", s.handleGetContactInquiry)
			r.Patch("/contact-inquiries/{id}/status", s.handleUpdateContactStatus)
			r.Patch("/contact-inquiries/{id}/assign", s.handleAssignContact)

			r.Get("/service-inquiries", s.handleListServiceInquiries)
			r.Get("/service-inquiries/{id}", s.handleGetServiceInquiry)
			r.Patch("/service-inquiries/{id}/status", s.handleUpdateServiceStatus)
			r.Post("/service-inquiries/{id}/spam", s.handleMarkServiceSpam)
			r.Post("/service-inquiries/{id}/not-spam", s.handleMarkServiceNotSpam)

			r.Post("/posts", s.handleCreatePost)
			r.Put("/posts/{id}", s.handleUpdatePost)
			r.Get("/comments/pending", s.handleListPendingComments)
			r.Patch("/comments/{id}/moderate", s.handleModerateComment)

			r.Post("/services", s.handleCreateService)
			r.Put("/services/{id}", s.handleUpdateService)
			r.Post("/service-categories", s.handleCreateServiceCategory)
			r.Put("/service-categories/{id}", s.handleUpdateServiceCategory)

			r.With(requireAdmin).Post("/users", s.handleCreateUser)
		})
	})

	return r
}
