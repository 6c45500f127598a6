package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cascade/internal/domain"
	"cascade/internal/intake"
	"cascade/internal/services"
	"cascade/internal/text"
	apperrors "cascade/pkg/errors"
)

// maxUserAgentLen caps the stored user agent string
const maxUserAgentLen = 500

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := s.health.Check(r.Context())
	status := http.StatusOK
	if result.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.auth.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	featured := r.URL.Query().Get("featured") == "true"
	categorySlug := r.URL.Query().Get("category")

	list, err := s.catalog.ListServices(r.Context(), categorySlug, featured)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	nav, err := s.catalog.Navigation(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

func (s *Server) handleListServiceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": categories})
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	service, err := s.catalog.GetServiceBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service)
}

func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var sub intake.ContactSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, err)
		return
	}
	sub.IPAddress = clientIP(r)
	sub.UserAgent = text.Truncate(r.UserAgent(), maxUserAgentLen)

	ack, err := s.intake.SubmitContact(r.Context(), &sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (s *Server) handleSubmitService(w http.ResponseWriter, r *http.Request) {
	var sub intake.ServiceSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, err)
		return
	}
	sub.IPAddress = clientIP(r)
	sub.UserAgent = text.Truncate(r.UserAgent(), maxUserAgentLen)
	sub.Referrer = text.Truncate(r.Referer(), maxUserAgentLen)

	// Resolve the service page the form was submitted from, when given.
	// An unknown id is a client error; the inquiry is not silently
	// detached.
	var service *domain.Service
	if sub.ServiceID != nil {
		resolved, err := s.catalog.GetServiceByID(r.Context(), *sub.ServiceID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				writeError(w, apperrors.New(apperrors.ErrCodeBadRequest, "unknown service"))
				return
			}
			writeError(w, err)
			return
		}
		service = resolved
	}

	ack, err := s.intake.SubmitService(r.Context(), &sub, service)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	list, err := s.blog.ListPosts(r.Context(), services.PostFilter{
		CategorySlug: q.Get("category"),
		TagSlug:      q.Get("tag"),
		Search:       q.Get("q"),
		Page:         page,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	detail, err := s.blog.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSubmitComment(w http.ResponseWriter, r *http.Request) {
	var sub services.CommentSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, err)
		return
	}
	sub.IPAddress = clientIP(r)
	sub.UserAgent = text.Truncate(r.UserAgent(), maxUserAgentLen)

	comment, err := s.blog.SubmitComment(r.Context(), chi.URLParam(r, "slug"), &sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"comment": comment,
		"message": "Your comment has been submitted and is awaiting moderation.",
	})
}

func (s *Server) handleListBlogCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.blog.ListBlogCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": categories})
}
