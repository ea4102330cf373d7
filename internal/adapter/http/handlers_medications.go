package adapthttp

import (
	"errors"
	"net/http"

	"oncocare/internal/domain"
)

func (s *Server) handleMedications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": s.meds.Load(r.Context())})

	case http.MethodPost:
		var body domain.MedicationInput
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := s.meds.Add(r.Context(), body)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "code": verr.Code})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": item})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleMedication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}
	// Removal is destructive; clients must show a confirmation first.
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusConflict, errors.New("confirmation required: repeat with ?confirm=true"))
		return
	}
	removed := s.meds.Remove(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}
