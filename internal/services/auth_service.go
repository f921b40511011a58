package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/engYuns/rengintech/internal/domain"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/validate"
)

var (
	ErrBadCreds     = errors.New("invalid username or password")
	ErrInvalidToken = errors.New("invalid or expired session")
)

const tokenIssuer = "rengintech"

// AuthService checks admin credentials and issues signed session tokens.
type AuthService struct {
	Admins          repos.Storage
	Secret          []byte
	TTL             time.Duration
	DefaultUsername string
	Now             func() time.Time
}

// Session is what a verified token says about its bearer.
type Session struct {
	AdminID   string
	Username  string
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// NewAuthService builds an AuthService. An empty secret is replaced by a
// random one, which invalidates sessions on restart.
func NewAuthService(admins repos.Storage, secret string, ttl time.Duration, defaultUsername string) (*AuthService, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{Admins: admins, Secret: key, TTL: ttl, DefaultUsername: defaultUsername, Now: time.Now}, nil
}

// CreateAdmin validates and stores a new admin with a bcrypt-hashed password.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (domain.Admin, error) {
	in, err := validate.Admin(validate.Input{"username": username, "password": password})
	if err != nil {
		return domain.Admin{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, err
	}
	in.Password = string(hash)
	return s.Admins.CreateAdmin(ctx, in)
}

// EnsureAdmin creates the bootstrap admin unless one with that username exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Admins.GetAdminByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repos.ErrNotFound) {
		return false, err
	}
	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login verifies the credentials and returns a signed token. An empty username
// means the default admin.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = s.DefaultUsername
	}
	a, err := s.Admins.GetAdminByUsername(ctx, username)
	if errors.Is(err, repos.ErrNotFound) {
		return "", Session{}, ErrBadCreds
	}
	if err != nil {
		return "", Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return "", Session{}, ErrBadCreds
	}
	return s.issue(a)
}

func (s *AuthService) issue(a domain.Admin) (string, Session, error) {
	now := s.now()
	sess := Session{AdminID: a.ID, Username: a.Username, ExpiresAt: now.Add(s.TTL)}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Username: a.Username,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return tok, sess, nil
}

// Verify checks a token's signature, issuer and expiry.
func (s *AuthService) Verify(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrInvalidToken
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{AdminID: claims.Subject, Username: claims.Username, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
