package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/engYuns/rengintech/internal/http/handlers"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/services"
)

const (
	testAdmin    = "admin"
	testPassword = "s3cret-pass"
)

type testEnv struct {
	app   *fiber.App
	store repos.Storage
	auth  *services.AuthService
	logos *services.LogoStore
}

// newTestEnv wires the full application over an in-memory store with one admin.
func newTestEnv(t *testing.T, opts handlers.AppOptions) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, repos.NewMemory(), opts)
}

func newTestEnvWithStore(t *testing.T, store repos.Storage, opts handlers.AppOptions) *testEnv {
	t.Helper()
	auth, err := services.NewAuthService(store, "test-secret", time.Hour, testAdmin)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	if _, err := auth.EnsureAdmin(context.Background(), testAdmin, testPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	logos, err := services.NewLogoStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("logo store: %v", err)
	}
	app := handlers.NewApp(handlers.NewDeps(store, auth, logos), opts)
	return &testEnv{app: app, store: store, auth: auth, logos: logos}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// login signs in the seeded admin through the JSON endpoint and returns the token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp := e.do(t, "POST", "/api/admin/login", map[string]string{"password": testPassword}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decode(t, resp, &out)
	if !out.Success || out.Token == "" {
		t.Fatalf("login: unexpected body %+v", out)
	}
	return out.Token
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Admin  string         `json:"admin"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs redirects the std logger while fn runs and returns the JSON entries.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
