package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/engYuns/rengintech/internal/domain"
	"github.com/engYuns/rengintech/internal/http/handlers"
	"github.com/engYuns/rengintech/internal/repos"
)

// failingCreateStore rejects every new client after the logo has been written.
type failingCreateStore struct {
	repos.Storage
}

func (failingCreateStore) CreateClient(context.Context, domain.NewClient) (domain.Client, error) {
	return domain.Client{}, errDisk
}

func multipartClient(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("logo", fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestClientLogoUploadServed(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	token := env.login(t)
	png := []byte("\x89PNG\r\n\x1a\nfake-image-bytes")

	body, ct := multipartClient(t, map[string]string{
		"name": "Acme", "category": "Retail", "description": "Logo refresh",
	}, "acme.png", png)
	req := httptest.NewRequest("POST", "/api/clients", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d body=%s", resp.StatusCode, readBody(t, resp))
	}
	var c domain.Client
	decode(t, resp, &c)
	if c.LogoURL == nil || !strings.HasPrefix(*c.LogoURL, "/uploads/") || !strings.HasSuffix(*c.LogoURL, ".png") {
		t.Fatalf("unexpected logoUrl %v", c.LogoURL)
	}
	if strings.Contains(*c.LogoURL, "acme") {
		t.Fatalf("client-supplied file name leaked into %q", *c.LogoURL)
	}

	resp = env.do(t, "GET", *c.LogoURL, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("serve logo: expected 200, got %d", resp.StatusCode)
	}
	if got := readBody(t, resp); got != string(png) {
		t.Fatalf("served logo differs: %q", got)
	}
}

func TestClientLogoRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	token := env.login(t)

	body, ct := multipartClient(t, map[string]string{
		"name": "Acme", "category": "Retail", "description": "d",
	}, "payload.exe", []byte("MZ"))
	req := httptest.NewRequest("POST", "/api/clients", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for .exe logo, got %d", resp.StatusCode)
	}
	clients, _ := env.store.GetAllClients(t.Context())
	if len(clients) != 0 {
		t.Fatalf("client stored despite rejected logo: %+v", clients)
	}
}

func TestClientLogoRemovedWhenCreateFails(t *testing.T) {
	env := newTestEnvWithStore(t, failingCreateStore{Storage: repos.NewMemory()}, handlers.AppOptions{})
	token := env.login(t)

	body, ct := multipartClient(t, map[string]string{
		"name": "Acme", "category": "Retail", "description": "d",
	}, "a.png", []byte("\x89PNG\r\n\x1a\nbytes"))
	req := httptest.NewRequest("POST", "/api/clients", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", resp.StatusCode, readBody(t, resp))
	}
	entries, err := os.ReadDir(env.logos.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("orphan logo left in upload dir: %v", entries)
	}
}

func TestUploadsTraversalBlocked(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	secret := filepath.Join(filepath.Dir(env.logos.Dir), "secret.txt")
	if err := os.WriteFile(secret, []byte("top-secret"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{
		"/uploads/..%2fsecret.txt",
		"/uploads/%2e%2e/secret.txt",
		"/uploads/%2e%2e%2fsecret.txt",
		"/uploads/missing.png",
	} {
		resp := env.do(t, "GET", p, nil, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", p, resp.StatusCode)
		}
		if strings.Contains(readBody(t, resp), "top-secret") {
			t.Fatalf("GET %s leaked file contents", p)
		}
	}
}
