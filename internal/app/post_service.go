package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"community-hub/internal/domain"
)

// Cleaner masks profanity in user-supplied text before it is persisted.
type Cleaner interface {
	Clean(text string) string
}

// PostService owns the post feed and its comments.
type PostService struct {
	docs    *Documents
	cleaner Cleaner
	now     func() time.Time
}

func NewPostService(docs *Documents, cleaner Cleaner) *PostService {
	return NewPostServiceWithClock(docs, cleaner, time.Now)
}

// NewPostServiceWithClock is test-only for deterministic timestamps.
func NewPostServiceWithClock(docs *Documents, cleaner Cleaner, now func() time.Time) *PostService {
	return &PostService{docs: docs, cleaner: cleaner, now: now}
}

// Create appends a post with profanity-cleaned content.
func (s *PostService) Create(ctx context.Context, userID, content string, images []string) (domain.Post, error) {
	post := domain.Post{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: s.cleaner.Clean(content),
		Images:  images,
		Created: s.now(),
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	err := s.docs.Update(ctx, func(doc *domain.Document) error {
		doc.Posts = append(doc.Posts, post)
		return nil
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// Feed returns the most recent posts, newest first.
func (s *PostService) Feed(ctx context.Context) ([]domain.Post, error) {
	var feed []domain.Post
	err := s.docs.View(ctx, func(doc domain.Document) error {
		posts := doc.Posts
		if len(posts) > domain.FeedSize {
			posts = posts[len(posts)-domain.FeedSize:]
		}
		feed = make([]domain.Post, 0, len(posts))
		for i := len(posts) - 1; i >= 0; i-- {
			feed = append(feed, posts[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}

// AddComment stores a profanity-cleaned comment on an existing post and
// returns it for broadcasting to the post's room.
func (s *PostService) AddComment(ctx context.Context, postID, userName, text string) (domain.Comment, error) {
	if postID == "" {
		return domain.Comment{}, domain.ValidationError{Field: "postId"}
	}
	if text == "" {
		return domain.Comment{}, domain.ValidationError{Field: "text"}
	}
	if userName == "" {
		userName = "Guest"
	}
	comment := domain.Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		UserName: userName,
		Text:     s.cleaner.Clean(text),
		Created:  s.now(),
	}
	err := s.docs.Update(ctx, func(doc *domain.Document) error {
		for _, post := range doc.Posts {
			if post.ID == postID {
				doc.Comments = append(doc.Comments, comment)
				return nil
			}
		}
		return domain.ErrPostNotFound
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}
