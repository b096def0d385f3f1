package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"community-hub/internal/app"
	"community-hub/internal/domain"
)

type submitScoreRequest struct {
	Name  string `json:"name"`
	Score any    `json:"score"`
	Game  string `json:"game"`
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ValidationError{Field: "score"})
		return
	}
	score, err := coerceScore(req.Score)
	if err != nil {
		respondError(w, err)
		return
	}
	err = s.game.Submit(r.Context(), app.ScoreSubmission{
		Name:  req.Name,
		Score: score,
		Game:  req.Game,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.game.Leaderboard(r.Context(), r.URL.Query().Get("game"))
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.ScoreEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// coerceScore accepts a JSON number or a numeric string, mirroring the
// loose clients this API has always had. Missing stays nil so the service
// can reject it.
func coerceScore(v any) (*float64, error) {
	switch score := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &score, nil
	case string:
		parsed, err := strconv.ParseFloat(score, 64)
		if err != nil {
			return nil, domain.ValidationError{Field: "score"}
		}
		return &parsed, nil
	default:
		return nil, domain.ValidationError{Field: "score"}
	}
}
