package domain

import "time"

// User is an account created on first successful OTP verification.
type User struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Avatar  string    `json:"avatar,omitempty"`
	Created time.Time `json:"created"`
}

// OTP is a pending one-time code for an email address.
type OTP struct {
	Email   string    `json:"email"`
	Code    string    `json:"otp"`
	Created time.Time `json:"created"`
}

// Post is a feed entry; Content has already passed the profanity filter.
type Post struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Content string    `json:"content"`
	Images  []string  `json:"images"`
	Created time.Time `json:"created"`
}

// Comment belongs to a post and is broadcast to the post's room on creation.
type Comment struct {
	ID       string    `json:"id"`
	PostID   string    `json:"postId"`
	UserName string    `json:"userName"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
}

// ScoreEntry is a single leaderboard submission. Entries are immutable;
// the collection as a whole is appended, re-sorted and truncated.
type ScoreEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Game      string    `json:"game"`
	Submitted time.Time `json:"t"`
}

// Question is one prompt/answer pair from the fixed daily pool. The answer
// never leaves the service.
type Question struct {
	Prompt string `json:"q"`
	Answer string `json:"a"`
}

// AnswerAttempt records one answer per (DayIndex, Identity). Identity is the
// caller's network origin, not an authenticated user.
type AnswerAttempt struct {
	ID        string    `json:"id"`
	DayIndex  int       `json:"dayIndex"`
	Answer    string    `json:"answer"`
	Identity  string    `json:"ip"`
	Correct   bool      `json:"correct"`
	Submitted time.Time `json:"t"`
}

// QuestionLeaderboardEntry is created only alongside a correct attempt.
type QuestionLeaderboardEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DayIndex  int       `json:"dayIndex"`
	Identity  string    `json:"ip"`
	Submitted time.Time `json:"t"`
}

// Document is the whole persisted state. Stores load and save it wholesale;
// there is no partial update.
type Document struct {
	Users               []User                     `json:"users"`
	OTPs                []OTP                      `json:"otps"`
	Posts               []Post                     `json:"posts"`
	Comments            []Comment                  `json:"comments"`
	GameScores          []ScoreEntry               `json:"game_scores"`
	Questions           []Question                 `json:"questions"`
	QuestionAnswers     []AnswerAttempt            `json:"question_answers"`
	QuestionLeaderboard []QuestionLeaderboardEntry `json:"question_leaderboard"`
}

const (
	// DefaultPlayerName is used when a submission carries no display name.
	DefaultPlayerName = "Player"
	// DefaultGame tags score entries submitted without a game.
	DefaultGame = "number"
	// MaxScoreEntries caps the stored score collection.
	MaxScoreEntries = 200
	// LeaderboardSize is how many entries a leaderboard read returns.
	LeaderboardSize = 20
	// FeedSize is how many posts the feed returns.
	FeedSize = 100
)
