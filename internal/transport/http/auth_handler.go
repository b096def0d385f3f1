package http

import (
	"encoding/json"
	"net/http"
	"time"

	"community-hub/internal/domain"
)

type requestOTPRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ValidationError{Field: "email"})
		return
	}
	if err := s.auth.RequestOTP(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "OTP sent (check server log or email)",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Name  string `json:"name"`
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ValidationError{Field: "email and otp"})
		return
	}
	token, user, err := s.auth.VerifyOTP(r.Context(), req.Email, req.OTP, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		respondError(w, domain.ErrInvalidToken)
		return
	}
	user, err := s.auth.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UnixMilli(),
	})
}
