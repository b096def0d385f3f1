package app

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"community-hub/internal/domain"
)

// QuestionService selects the question of the day and gates answers to one
// per identity per day index.
type QuestionService struct {
	docs *Documents
	now  func() time.Time
}

func NewQuestionService(docs *Documents) *QuestionService {
	return NewQuestionServiceWithClock(docs, time.Now)
}

// NewQuestionServiceWithClock is test-only for deterministic day selection.
func NewQuestionServiceWithClock(docs *Documents, now func() time.Time) *QuestionService {
	return &QuestionService{docs: docs, now: now}
}

// TodayQuestion is the public view of the daily question; the expected
// answer is never included.
type TodayQuestion struct {
	DayIndex int    `json:"dayIndex"`
	Question string `json:"question"`
}

// Today returns the question for the current calendar day: day-of-year
// (Jan 1 = 1) modulo pool size, so the pool cycles once per pool-length
// days. Stable across calls within the same day; no side effects.
func (s *QuestionService) Today(ctx context.Context) (TodayQuestion, error) {
	var out TodayQuestion
	err := s.docs.View(ctx, func(doc domain.Document) error {
		if len(doc.Questions) == 0 {
			return domain.ValidationError{Field: "question pool"}
		}
		idx := s.now().YearDay() % len(doc.Questions)
		out = TodayQuestion{DayIndex: idx, Question: doc.Questions[idx].Prompt}
		return nil
	})
	return out, err
}

// AnswerSubmission carries one answer. DayIndex and Answer are pointers so
// missing fields are distinguishable from zero values.
type AnswerSubmission struct {
	DayIndex *int
	Answer   *string
	Identity string
	Name     string
}

// SubmitAnswer records at most one attempt per (day index, identity) and
// reports whether the answer matched after normalization. A duplicate is
// terminal: the original attempt is preserved and the same identity stays
// locked out for that day index.
func (s *QuestionService) SubmitAnswer(ctx context.Context, sub AnswerSubmission) (bool, error) {
	if sub.DayIndex == nil {
		return false, domain.ValidationError{Field: "dayIndex"}
	}
	if sub.Answer == nil {
		return false, domain.ValidationError{Field: "answer"}
	}

	correct := false
	err := s.docs.Update(ctx, func(doc *domain.Document) error {
		day := *sub.DayIndex
		if day < 0 || day >= len(doc.Questions) {
			return domain.ValidationError{Field: "dayIndex"}
		}
		for _, attempt := range doc.QuestionAnswers {
			if attempt.DayIndex == day && attempt.Identity == sub.Identity {
				return domain.ErrDuplicateAttempt
			}
		}

		correct = NormalizeAnswer(*sub.Answer) == NormalizeAnswer(doc.Questions[day].Answer)
		now := s.now()
		doc.QuestionAnswers = append(doc.QuestionAnswers, domain.AnswerAttempt{
			ID:        uuid.NewString(),
			DayIndex:  day,
			Answer:    *sub.Answer,
			Identity:  sub.Identity,
			Correct:   correct,
			Submitted: now,
		})
		if correct {
			name := sub.Name
			if name == "" {
				name = domain.DefaultPlayerName
			}
			doc.QuestionLeaderboard = append(doc.QuestionLeaderboard, domain.QuestionLeaderboardEntry{
				ID:        uuid.NewString(),
				Name:      name,
				DayIndex:  day,
				Identity:  sub.Identity,
				Submitted: now,
			})
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return correct, nil
}

// NormalizeAnswer lower-cases, trims, and strips diacritics by decomposing
// to NFD and dropping combining marks, so "Tokyo ", "tokyo" and "tokyô"
// compare equal.
func NormalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		return s
	}
	return stripped
}
