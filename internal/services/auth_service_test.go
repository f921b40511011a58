package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/services"
	"github.com/engYuns/rengintech/internal/validate"
)

func newAuth(t *testing.T) (*services.AuthService, repos.Storage) {
	t.Helper()
	store := repos.NewMemory()
	auth, err := services.NewAuthService(store, "unit-secret", time.Hour, "admin")
	if err != nil {
		t.Fatal(err)
	}
	return auth, store
}

func TestEnsureAdminHashesOnce(t *testing.T) {
	ctx := context.Background()
	auth, store := newAuth(t)

	created, err := auth.EnsureAdmin(ctx, "admin", "Passw0rd!")
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	created, err = auth.EnsureAdmin(ctx, "admin", "Different9")
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}

	a, err := store.GetAdminByUsername(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(a.Password, "Passw0rd!") || !strings.HasPrefix(a.Password, "$2") {
		t.Fatalf("password not stored as bcrypt hash: %q", a.Password)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("Passw0rd!")); err != nil {
		t.Fatalf("hash does not match original password: %v", err)
	}
}

func TestCreateAdminValidatesAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)

	_, err := auth.CreateAdmin(ctx, "ops", "weak")
	var ve *validate.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for weak password, got %v", err)
	}
	if _, err := auth.CreateAdmin(ctx, "ops", "Strong123"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.CreateAdmin(ctx, "ops", "Strong456"); !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestLoginAndVerify(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)
	if _, err := auth.EnsureAdmin(ctx, "admin", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := auth.Login(ctx, "", "nope"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("expected ErrBadCreds, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "ghost", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown user: expected ErrBadCreds, got %v", err)
	}

	// empty username means the default admin
	token, sess, err := auth.Login(ctx, "", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Username != "admin" || sess.AdminID == "" {
		t.Fatalf("unexpected session %+v", sess)
	}
	got, err := auth.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.AdminID != sess.AdminID || got.Username != "admin" {
		t.Fatalf("verify returned %+v, want %+v", got, sess)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)
	if _, err := auth.EnsureAdmin(ctx, "admin", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	token, _, err := auth.Login(ctx, "admin", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}

	i := len(token) - 5
	swap := byte('A')
	if token[i] == 'A' {
		swap = 'B'
	}
	tampered := token[:i] + string(swap) + token[i+1:]
	if _, err := auth.Verify(tampered); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("tampered token accepted: %v", err)
	}
	if _, err := auth.Verify(""); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("empty token accepted: %v", err)
	}

	// alg=none must never pass
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer: "rengintech", Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Verify(unsigned); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("unsigned token accepted: %v", err)
	}

	// expiry
	auth.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := auth.Verify(token); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestRandomSecretWhenUnset(t *testing.T) {
	store := repos.NewMemory()
	a, err := services.NewAuthService(store, "", 0, "admin")
	if err != nil {
		t.Fatal(err)
	}
	b, err := services.NewAuthService(store, "", 0, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Secret) != 32 || string(a.Secret) == string(b.Secret) {
		t.Fatal("expected distinct random secrets")
	}
	if a.TTL != 12*time.Hour {
		t.Fatalf("expected default TTL, got %v", a.TTL)
	}
}
