package adapthttp

import (
	"errors"
	"net/http"
)

func (s *Server) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.symptoms.All()})
}

func (s *Server) handleSymptom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	item, ok := s.symptoms.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("symptom not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}
