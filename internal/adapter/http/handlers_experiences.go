package adapthttp

import (
	"errors"
	"net/http"
)

func (s *Server) handleExperiences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.experiences == nil {
		writeError(w, http.StatusNotFound, errors.New("not available"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.experiences.All()})
}

func (s *Server) handleExperience(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.experiences == nil {
		writeError(w, http.StatusNotFound, errors.New("not available"))
		return
	}
	item, ok := s.experiences.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("experience not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}
