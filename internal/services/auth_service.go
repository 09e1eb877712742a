package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"airdee/internal/domain"
	"airdee/internal/email"
	"airdee/internal/repos"
)

var (
	ErrBadCreds = errors.New("invalid email or password")
	ErrBadOTP   = errors.New("invalid or expired code")
	ErrBadToken = errors.New("invalid or expired token")
)

// Auth change-stream event types.
const (
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
)

const (
	otpTTL     = 5 * time.Minute
	resetTTL   = time.Hour
	bcryptCost = 12
)

// Session is a signed-in identity plus its bearer token.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type AuthEvent struct {
	Type    string
	Session *Session // nil on sign-out
}

// Claims carried in the access token.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthService is the gateway's authentication surface: credential and OTP
// sign-in, sign-up, password reset and a session change stream. Sessions are
// mirrored into the sessions table so logout revokes outstanding tokens.
type AuthService struct {
	Users *repos.UserRepo
	Mail  *email.Service

	SigningKey  string
	TokenTTL    time.Duration
	CountryCode string
	BaseURL     string

	mu      sync.Mutex
	subs    map[int]chan AuthEvent
	nextSub int
}

// Subscribe returns a change-stream channel and its unsubscribe func. The
// channel closes on unsubscribe. Slow consumers drop events rather than
// blocking auth operations.
func (s *AuthService) Subscribe() (<-chan AuthEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]chan AuthEvent)
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan AuthEvent, 8)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *AuthService) publish(ev AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// NormalizePhone maps a local number onto its country-code form: a leading "+"
// passes through, otherwise a leading "0" is dropped and the configured
// country code prepended.
func (s *AuthService) NormalizePhone(raw string) string {
	p := strings.TrimSpace(raw)
	if strings.HasPrefix(p, "+") {
		return p
	}
	p = strings.TrimPrefix(p, "0")
	cc := s.CountryCode
	if cc == "" {
		cc = "+66"
	}
	return cc + p
}

func (s *AuthService) issueSession(u *domain.User) (*Session, error) {
	sid := uuid.NewString()
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	token, err := s.signToken(u, sid)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

func (s *AuthService) signToken(u *domain.User, sid string) (string, error) {
	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	claims := Claims{
		Email:     u.Email,
		Role:      u.Role,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SigningKey))
}

// Login verifies credentials and publishes SIGNED_IN. Callers observing the
// change stream see the session there; the returned session is for the
// initiating client.
func (s *AuthService) Login(emailAddr, password string) (*Session, error) {
	u, err := s.Users.ByEmail(emailAddr)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	sess, err := s.issueSession(u)
	if err != nil {
		return nil, err
	}
	s.publish(AuthEvent{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SignUp creates a USER account with the display name as profile metadata and
// signs it in.
func (s *AuthService) SignUp(emailAddr, password, displayName string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:    uuid.NewString(),
		Email: emailAddr,
		Name:  displayName,
		Hash:  string(hash),
		Role:  "USER",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	if s.Mail != nil && s.Mail.IsEnabled() {
		if err := s.Mail.SendWelcome(u.Email, u.Name); err != nil {
			log.Printf("[auth] welcome mail to %s failed: %v", u.Email, err)
		}
	}
	sess, err := s.issueSession(&u)
	if err != nil {
		return nil, err
	}
	s.publish(AuthEvent{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SendPhoneOTP stores a hashed one-time code for the normalized phone and
// returns the code for the SMS dispatcher.
func (s *AuthService) SendPhoneOTP(phone string) (string, error) {
	normalized := s.NormalizePhone(phone)
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", err
	}
	if err := s.Users.SaveOTP(normalized, string(hash), time.Now().Add(otpTTL)); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP consumes the pending code and signs the phone's account in,
// creating it on first use.
func (s *AuthService) VerifyOTP(phone, code string) (*Session, error) {
	normalized := s.NormalizePhone(phone)
	hash, err := s.Users.TakeOTP(normalized)
	if err != nil {
		return nil, ErrBadOTP
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return nil, ErrBadOTP
	}

	u, err := s.Users.ByPhone(normalized)
	if err != nil {
		u = &domain.User{
			ID:    uuid.NewString(),
			Email: strings.TrimPrefix(normalized, "+") + "@otp.airdee.local",
			Phone: normalized,
			Name:  normalized,
			Hash:  "!", // no password login for OTP-only accounts
			Role:  "USER",
		}
		if err := s.Users.Create(*u); err != nil {
			return nil, err
		}
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, err
	}
	s.publish(AuthEvent{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// ResetPassword mails a one-time link to the account's password-update page.
// Unknown addresses are not revealed to the caller.
func (s *AuthService) ResetPassword(emailAddr string) error {
	u, err := s.Users.ByEmail(emailAddr)
	if err != nil {
		return nil
	}
	token := uuid.NewString()
	if err := s.Users.SaveResetToken(token, u.ID, time.Now().Add(resetTTL)); err != nil {
		return err
	}
	link := s.BaseURL + "/auth/update-password?token=" + token
	if s.Mail != nil && s.Mail.IsEnabled() {
		return s.Mail.SendPasswordReset(u.Email, link)
	}
	log.Printf("[auth] mail disabled; reset link for %s: %s", u.Email, link)
	return nil
}

// UpdatePassword replaces the password of an authenticated user.
func (s *AuthService) UpdatePassword(userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(userID, string(hash))
}

// CompleteReset consumes a reset token and replaces the password. A token
// whose account has since been removed is treated the same as an expired one.
func (s *AuthService) CompleteReset(token, newPassword string) error {
	userID, err := s.Users.TakeResetToken(token)
	if err != nil {
		return ErrBadToken
	}
	if _, err := s.Users.ByID(userID); err != nil {
		return ErrBadToken
	}
	return s.UpdatePassword(userID, newPassword)
}

// Refresh issues a fresh token for an existing session and publishes
// TOKEN_REFRESHED.
func (s *AuthService) Refresh(token string) (*Session, error) {
	u, claims, err := s.CurrentUser(token)
	if err != nil {
		return nil, err
	}
	fresh, err := s.signToken(u, claims.SessionID)
	if err != nil {
		return nil, err
	}
	sess := &Session{User: u, Token: fresh}
	s.publish(AuthEvent{Type: EventTokenRefreshed, Session: sess})
	return sess, nil
}

// Logout revokes the session and publishes SIGNED_OUT.
func (s *AuthService) Logout(token string) error {
	_, claims, err := s.CurrentUser(token)
	if err != nil {
		return nil // already signed out
	}
	if err := s.Users.UnbindSession(claims.SessionID); err != nil {
		return err
	}
	s.publish(AuthEvent{Type: EventSignedOut})
	return nil
}

// CurrentUser validates a bearer token against both its signature and the
// live session row, so revoked sessions fail even before token expiry.
func (s *AuthService) CurrentUser(token string) (*domain.User, *Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.SigningKey), nil
	})
	if err != nil {
		return nil, nil, ErrBadToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, nil, ErrBadToken
	}
	u, err := s.Users.SessionUser(claims.SessionID)
	if err != nil {
		return nil, nil, ErrBadToken
	}
	return u, claims, nil
}
