package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"community-hub/internal/domain"
)

// Mailer delivers one-time codes. Implementations may deliver by email or
// just log the code when no mail transport is configured.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// AuthService implements the email OTP flow and issues bearer tokens.
type AuthService struct {
	docs     *Documents
	mailer   Mailer
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(docs *Documents, mailer Mailer, secret string, tokenTTL time.Duration) *AuthService {
	return NewAuthServiceWithClock(docs, mailer, secret, tokenTTL, time.Now)
}

// NewAuthServiceWithClock is test-only for deterministic token expiry.
func NewAuthServiceWithClock(docs *Documents, mailer Mailer, secret string, tokenTTL time.Duration, now func() time.Time) *AuthService {
	return &AuthService{
		docs:     docs,
		mailer:   mailer,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      now,
	}
}

// RequestOTP records a fresh six-digit code for the email and hands it to
// the mailer. Delivery failures are logged, not surfaced; the code is
// already persisted and the operator can read it from the log.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	if email == "" {
		return domain.ValidationError{Field: "email"}
	}
	code, err := otpCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	err = s.docs.Update(ctx, func(doc *domain.Document) error {
		doc.OTPs = append(doc.OTPs, domain.OTP{Email: email, Code: code, Created: s.now()})
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		log.Printf("mail error: %v", err)
	}
	return nil
}

// VerifyOTP checks the code, creates the user on first verification,
// invalidates every pending code for the email, and returns a signed token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code, name string) (string, domain.User, error) {
	if email == "" {
		return "", domain.User{}, domain.ValidationError{Field: "email"}
	}
	if code == "" {
		return "", domain.User{}, domain.ValidationError{Field: "otp"}
	}

	var user domain.User
	err := s.docs.Update(ctx, func(doc *domain.Document) error {
		matched := false
		for _, otp := range doc.OTPs {
			if otp.Email == email && otp.Code == code {
				matched = true
				break
			}
		}
		if !matched {
			return domain.ErrInvalidOTP
		}

		found := false
		for _, u := range doc.Users {
			if u.Email == email {
				user = u
				found = true
				break
			}
		}
		if !found {
			display := name
			if display == "" {
				display = strings.SplitN(email, "@", 2)[0]
			}
			user = domain.User{
				ID:      uuid.NewString(),
				Email:   email,
				Name:    display,
				Created: s.now(),
			}
			doc.Users = append(doc.Users, user)
		}

		kept := make([]domain.OTP, 0, len(doc.OTPs))
		for _, otp := range doc.OTPs {
			if otp.Email != email {
				kept = append(kept, otp)
			}
		}
		doc.OTPs = kept
		return nil
	})
	if err != nil {
		return "", domain.User{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// TokenClaims is what a bearer token carries.
type TokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(user domain.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(token string) (TokenClaims, error) {
	var claims TokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return TokenClaims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves the token subject against the document.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	err := s.docs.View(ctx, func(doc domain.Document) error {
		for _, u := range doc.Users {
			if u.ID == userID {
				user = u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return user, err
}

// SetAvatar stores the uploaded avatar path on the user.
func (s *AuthService) SetAvatar(ctx context.Context, userID, path string) (domain.User, error) {
	var user domain.User
	err := s.docs.Update(ctx, func(doc *domain.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == userID {
				doc.Users[i].Avatar = path
				user = doc.Users[i]
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return user, err
}

func otpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
