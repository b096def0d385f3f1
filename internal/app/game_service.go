package app

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"community-hub/internal/domain"
)

// LeaderboardNotifier receives a signal after every successful score
// submission. The signal carries no payload; consumers re-fetch.
type LeaderboardNotifier interface {
	LeaderboardUpdated()
}

// GameService maintains the bounded, sorted score ledger.
type GameService struct {
	docs     *Documents
	notifier LeaderboardNotifier
	now      func() time.Time
}

func NewGameService(docs *Documents, notifier LeaderboardNotifier) *GameService {
	return NewGameServiceWithClock(docs, notifier, time.Now)
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(docs *Documents, notifier LeaderboardNotifier, now func() time.Time) *GameService {
	return &GameService{docs: docs, notifier: notifier, now: now}
}

// ScoreSubmission carries one submit request. Score is a pointer so a
// missing field is distinguishable from zero.
type ScoreSubmission struct {
	Name  string
	Score *float64
	Game  string
}

// Submit appends a score entry, re-sorts the ledger and truncates it to the
// cap. Subscribers are notified only after the write succeeded.
func (s *GameService) Submit(ctx context.Context, sub ScoreSubmission) error {
	if sub.Score == nil {
		return domain.ValidationError{Field: "score"}
	}
	name := sub.Name
	if name == "" {
		name = domain.DefaultPlayerName
	}
	game := sub.Game
	if game == "" {
		game = domain.DefaultGame
	}

	err := s.docs.Update(ctx, func(doc *domain.Document) error {
		doc.GameScores = append(doc.GameScores, domain.ScoreEntry{
			ID:        uuid.NewString(),
			Name:      name,
			Score:     *sub.Score,
			Game:      game,
			Submitted: s.now(),
		})
		sortScores(doc.GameScores)
		if len(doc.GameScores) > domain.MaxScoreEntries {
			doc.GameScores = doc.GameScores[:domain.MaxScoreEntries]
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.LeaderboardUpdated()
	}
	return nil
}

// Leaderboard returns the top entries, optionally restricted to one game.
// A stored entry with an empty game tag counts as the default game. The
// collection is maintained sorted, so reads just slice.
func (s *GameService) Leaderboard(ctx context.Context, game string) ([]domain.ScoreEntry, error) {
	top := make([]domain.ScoreEntry, 0, domain.LeaderboardSize)
	err := s.docs.View(ctx, func(doc domain.Document) error {
		for _, entry := range doc.GameScores {
			if game != "" && entryGame(entry) != game {
				continue
			}
			top = append(top, entry)
			if len(top) == domain.LeaderboardSize {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return top, nil
}

// sortScores orders by score descending; at equal score the earlier
// submission ranks higher.
func sortScores(entries []domain.ScoreEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Submitted.Before(entries[j].Submitted)
	})
}

func entryGame(entry domain.ScoreEntry) string {
	if entry.Game == "" {
		return domain.DefaultGame
	}
	return entry.Game
}
