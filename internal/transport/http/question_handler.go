package http

import (
	"encoding/json"
	"net/http"

	"community-hub/internal/app"
	"community-hub/internal/domain"
)

func (s *Server) handleTodayQuestion(w http.ResponseWriter, r *http.Request) {
	today, err := s.questions.Today(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, today)
}

type submitAnswerRequest struct {
	DayIndex *int    `json:"dayIndex"`
	Answer   *string `json:"answer"`
	Name     string  `json:"name"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ValidationError{Field: "dayIndex and answer"})
		return
	}
	correct, err := s.questions.SubmitAnswer(r.Context(), app.AnswerSubmission{
		DayIndex: req.DayIndex,
		Answer:   req.Answer,
		Identity: clientIP(r),
		Name:     req.Name,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "correct": correct})
}
