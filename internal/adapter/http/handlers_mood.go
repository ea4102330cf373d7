package adapthttp

import (
	"net/http"

	"oncocare/internal/domain"
)

func (s *Server) moodToday(r *http.Request) map[string]any {
	var mood any
	if m, ok := s.mood.Load(r.Context()); ok {
		mood = m
	}
	return map[string]any{
		"today": s.mood.Today(),
		"key":   s.mood.KeyForToday(),
		"mood":  mood,
	}
}

func (s *Server) handleMoodToday(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.moodToday(r))

	case http.MethodPut:
		var body struct {
			Mood string `json:"mood"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		m, err := domain.ParseMood(body.Mood)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.mood.Select(r.Context(), m)
		writeJSON(w, http.StatusOK, map[string]any{
			"today": s.mood.Today(),
			"key":   s.mood.KeyForToday(),
			"mood":  m,
		})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) handleMoodHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	days := intQuery(r, "days", 7)
	writeJSON(w, http.StatusOK, map[string]any{"items": s.mood.History(r.Context(), days)})
}
