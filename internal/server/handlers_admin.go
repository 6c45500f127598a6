package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cascade/internal/domain"
	"cascade/internal/services"
	apperrors "cascade/pkg/errors"
)

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeBadRequest, "invalid id")
	}
	return uint(id), nil
}

func inquiryFilterFromQuery(r *http.Request) services.InquiryFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	filter := services.InquiryFilter{
		Status:  q.Get("status"),
		Search:  q.Get("q"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := q.Get("is_spam"); raw != "" {
		isSpam := raw == "true"
		filter.IsSpam = &isSpam
	}
	return filter
}

func (s *Server) handleListContactInquiries(w http.ResponseWriter, r *http.Request) {
	list, err := s.inquiry.ListContactInquiries(r.Context(), inquiryFilterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetContactInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inquiry, err := s.inquiry.GetContactInquiry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiry)
}

func (s *Server) handleUpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	inquiry, err := s.inquiry.UpdateContactStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiry)
}

func (s *Server) handleAssignContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		UserID uint `json:"user_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	inquiry, err := s.inquiry.AssignContact(r.Context(), id, payload.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiry)
}

func (s *Server) handleListServiceInquiries(w http.ResponseWriter, r *http.Request) {
	list, err := s.inquiry.ListServiceInquiries(r.Context(), inquiryFilterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetServiceInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := s.inquiry.GetServiceInquiry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateServiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := s.inquiry.UpdateServiceStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleMarkServiceSpam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := s.inquiry.MarkServiceSpam(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleMarkServiceNotSpam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := s.inquiry.MarkServiceNotSpam(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := decodeJSON(r, &post); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.blog.CreatePost(r.Context(), &post, currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var post domain.Post
	if err := decodeJSON(r, &post); err != nil {
		writeError(w, err)
		return
	}
	post.ID = id

	updated, err := s.blog.UpdatePost(r.Context(), &post)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListPendingComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.blog.ListPendingComments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (s *Server) handleModerateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	comment, err := s.blog.ModerateComment(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var service domain.Service
	if err := decodeJSON(r, &service); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.catalog.CreateService(r.Context(), &service)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var service domain.Service
	if err := decodeJSON(r, &service); err != nil {
		writeError(w, err)
		return
	}
	service.ID = id

	updated, err := s.catalog.UpdateService(r.Context(), &service)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCreateServiceCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.ServiceCategory
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.catalog.CreateCategory(r.Context(), &category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateServiceCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var category domain.ServiceCategory
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, err)
		return
	}
	category.ID = id

	updated, err := s.catalog.UpdateCategory(r.Context(), &category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		FullName *string `json:"full_name"`
		IsAdmin  bool    `json:"is_admin"`
		IsStaff  bool    `json:"is_staff"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.auth.CreateUser(r.Context(), payload.Username, payload.Email, payload.Password,
		payload.FullName, payload.IsAdmin, payload.IsStaff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
