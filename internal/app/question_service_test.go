package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"community-hub/internal/app"
	"community-hub/internal/domain"
	"community-hub/internal/infra/memory"
)

func seededDocs(t *testing.T, pool []domain.Question) *app.Documents {
	t.Helper()
	docs := app.NewDocuments(memory.NewStore())
	if err := docs.SeedQuestions(context.Background(), pool); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	return docs
}

func ninetyQuestions() []domain.Question {
	pool := make([]domain.Question, 90)
	for i := range pool {
		pool[i] = domain.Question{Prompt: "prompt", Answer: "answer"}
	}
	pool[5] = domain.Question{Prompt: "Capital of Japan?", Answer: "tokyo"}
	return pool
}

func intOf(v int) *int { return &v }

func strOf(v string) *string { return &v }

func fixedDay95() func() time.Time {
	// 2023-04-05 is day-of-year 95 (31+28+31+5)
	return func() time.Time { return time.Date(2023, 4, 5, 10, 0, 0, 0, time.UTC) }
}

func TestTodayWrapsAroundPool(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t, ninetyQuestions())
	svc := app.NewQuestionServiceWithClock(docs, fixedDay95())

	today, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today.DayIndex != 5 {
		t.Fatalf("expected day index 95 mod 90 = 5, got %d", today.DayIndex)
	}
	if today.Question != "Capital of Japan?" {
		t.Fatalf("expected prompt of question 5, got %q", today.Question)
	}

	// stable within the same day
	again, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if again != today {
		t.Fatalf("expected identical result on repeat call, got %+v vs %+v", again, today)
	}
}

func TestTodayAdvancesWithCalendar(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t, ninetyQuestions())

	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var indices []int
	for i := 0; i < 3; i++ {
		now := day.AddDate(0, 0, i)
		svc := app.NewQuestionServiceWithClock(docs, func() time.Time { return now })
		today, err := svc.Today(ctx)
		if err != nil {
			t.Fatalf("today: %v", err)
		}
		indices = append(indices, today.DayIndex)
	}
	// Jan 1 is day-of-year 1, so the sequence starts at 1 and advances by one
	for i, want := range []int{1, 2, 3} {
		if indices[i] != want {
			t.Fatalf("expected indices [1 2 3], got %v", indices)
		}
	}
}

func TestSubmitAnswerDuplicateGate(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t, ninetyQuestions())
	svc := app.NewQuestionServiceWithClock(docs, fixedDay95())

	correct, err := svc.SubmitAnswer(ctx, app.AnswerSubmission{
		DayIndex: intOf(5),
		Answer:   strOf("Tokyo "),
		Identity: "1.2.3.4",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !correct {
		t.Fatalf("expected normalized answer to match")
	}

	_, err = svc.SubmitAnswer(ctx, app.AnswerSubmission{
		DayIndex: intOf(5),
		Answer:   strOf("tokyo"),
		Identity: "1.2.3.4",
	})
	if !errors.Is(err, domain.ErrDuplicateAttempt) {
		t.Fatalf("expected duplicate attempt error, got %v", err)
	}

	err = docs.View(ctx, func(doc domain.Document) error {
		if len(doc.QuestionAnswers) != 1 {
			t.Fatalf("expected exactly one attempt, got %d", len(doc.QuestionAnswers))
		}
		if !doc.QuestionAnswers[0].Correct {
			t.Fatalf("original attempt's correctness changed")
		}
		if len(doc.QuestionLeaderboard) != 1 {
			t.Fatalf("expected exactly one leaderboard entry, got %d", len(doc.QuestionLeaderboard))
		}
		entry := doc.QuestionLeaderboard[0]
		if entry.Name != "Alice" || entry.DayIndex != 5 || entry.Identity != "1.2.3.4" {
			t.Fatalf("unexpected leaderboard entry %+v", entry)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestSubmitAnswerAllowsOtherIdentitiesAndDays(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t, ninetyQuestions())
	svc := app.NewQuestionServiceWithClock(docs, fixedDay95())

	if _, err := svc.SubmitAnswer(ctx, app.AnswerSubmission{DayIndex: intOf(5), Answer: strOf("x"), Identity: "1.2.3.4"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// other identity, same day
	if _, err := svc.SubmitAnswer(ctx, app.AnswerSubmission{DayIndex: intOf(5), Answer: strOf("x"), Identity: "5.6.7.8"}); err != nil {
		t.Fatalf("other identity should pass the gate: %v", err)
	}
	// same identity, other day
	if _, err := svc.SubmitAnswer(ctx, app.AnswerSubmission{DayIndex: intOf(6), Answer: strOf("x"), Identity: "1.2.3.4"}); err != nil {
		t.Fatalf("other day should pass the gate: %v", err)
	}
}

func TestSubmitAnswerWrongAnswerRecordsNoLeaderboardEntry(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t, ninetyQuestions())
	svc := app.NewQuestionService(docs)

	correct, err := svc.SubmitAnswer(ctx, app.AnswerSubmission{
		DayIndex: intOf(5),
		Answer:   strOf("kyoto"),
		Identity: "1.2.3.4",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if correct {
		t.Fatalf("expected wrong answer")
	}
	err = docs.View(ctx, func(doc domain.Document) error {
		if len(doc.QuestionAnswers) != 1 || doc.QuestionAnswers[0].Correct {
			t.Fatalf("expected one incorrect attempt, got %+v", doc.QuestionAnswers)
		}
		if len(doc.QuestionLeaderboard) != 0 {
			t.Fatalf("wrong answer must not reach the question leaderboard")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t, ninetyQuestions())
	svc := app.NewQuestionService(docs)

	cases := []struct {
		name string
		sub  app.AnswerSubmission
	}{
		{"missing day index", app.AnswerSubmission{Answer: strOf("x"), Identity: "i"}},
		{"missing answer", app.AnswerSubmission{DayIndex: intOf(1), Identity: "i"}},
		{"negative day index", app.AnswerSubmission{DayIndex: intOf(-1), Answer: strOf("x"), Identity: "i"}},
		{"day index past pool", app.AnswerSubmission{DayIndex: intOf(90), Answer: strOf("x"), Identity: "i"}},
	}
	for _, tc := range cases {
		_, err := svc.SubmitAnswer(ctx, tc.sub)
		var ve domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	// none of the rejected submissions left a trace
	err := docs.View(ctx, func(doc domain.Document) error {
		if len(doc.QuestionAnswers) != 0 {
			t.Fatalf("rejected submissions must not mutate the document")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Tokyo ", "tokyo"},
		{"tokyo", "tokyo"},
		{"TOKYO", "tokyo"},
		{"  café", "cafe"},
		{"é", "e"},
		{"nguyễn du", "nguyen du"},
		{"6", "6"},
	}
	for _, tc := range cases {
		if got := app.NormalizeAnswer(tc.in); got != tc.want {
			t.Fatalf("normalize %q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
