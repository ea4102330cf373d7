package adapthttp

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"oncocare/internal/domain"
)

// writeFormError maps validation failures to 400 and anything else to 500.
func (s *Server) writeFormError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "code": verr.Code})
		return
	}
	s.log.Error("form submission failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, errors.New("internal error"))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.contact == nil {
		writeError(w, http.StatusNotFound, errors.New("not available"))
		return
	}
	var body domain.ContactInput
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	msg, err := s.contact.Send(r.Context(), body)
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": msg})
}

func (s *Server) handleExpertCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": domain.ExpertCategories})
}

func (s *Server) handleExpertQuestions(w http.ResponseWriter, r *http.Request) {
	if s.expert == nil {
		writeError(w, http.StatusNotFound, errors.New("not available"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		items, err := s.expert.Questions(r.Context())
		if err != nil {
			s.writeFormError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body domain.QuestionInput
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		q, err := s.expert.Ask(r.Context(), body)
		if err != nil {
			s.writeFormError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"item": q})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}
