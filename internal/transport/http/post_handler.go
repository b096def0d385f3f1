package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"community-hub/internal/domain"
)

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		respondError(w, domain.ErrInvalidToken)
		return
	}

	var content string
	var images []string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.uploads.MaxBytes); err != nil {
			respondError(w, domain.ValidationError{Field: "body"})
			return
		}
		content = r.FormValue("content")
		files := r.MultipartForm.File["images"]
		if len(files) > s.uploads.MaxFiles {
			files = files[:s.uploads.MaxFiles]
		}
		for _, fh := range files {
			path, err := s.saveUpload(fh)
			if err != nil {
				respondError(w, err)
				return
			}
			images = append(images, path)
		}
	} else {
		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, domain.ValidationError{Field: "content"})
			return
		}
		content = req.Content
	}

	post, err := s.posts.Create(r.Context(), claims.UserID, content, images)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "post": post})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	feed, err := s.posts.Feed(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if feed == nil {
		feed = []domain.Post{}
	}
	respondJSON(w, http.StatusOK, feed)
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		respondError(w, domain.ErrInvalidToken)
		return
	}
	if err := r.ParseMultipartForm(s.uploads.MaxBytes); err != nil {
		respondError(w, domain.ValidationError{Field: "avatar"})
		return
	}
	_, fh, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, domain.ValidationError{Field: "avatar"})
		return
	}
	path, err := s.saveUpload(fh)
	if err != nil {
		respondError(w, err)
		return
	}
	user, err := s.auth.SetAvatar(r.Context(), claims.UserID, path)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "avatar": user.Avatar})
}

// saveUpload writes one multipart file under the upload dir and returns its
// public path.
func (s *Server) saveUpload(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.uploads.MaxBytes {
		return "", domain.ValidationError{Field: "file size"}
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.uploads.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(fh.Filename))
	dst, err := os.Create(filepath.Join(s.uploads.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
