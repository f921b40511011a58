package services_test

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"github.com/engYuns/rengintech/internal/services"
)

func TestLogoTarget(t *testing.T) {
	ls, err := services.NewLogoStore(t.TempDir(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	path, url, err := ls.Target(&multipart.FileHeader{Filename: "Brand.PNG", Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != ls.Dir || !strings.HasSuffix(path, ".png") {
		t.Fatalf("unexpected path %q", path)
	}
	if !strings.HasPrefix(url, "/uploads/") || strings.Contains(url, "Brand") {
		t.Fatalf("unexpected url %q", url)
	}

	for _, fh := range []*multipart.FileHeader{
		{Filename: "shell.php", Size: 10},
		{Filename: "noext", Size: 10},
		{Filename: "big.jpg", Size: 4096},
	} {
		if _, _, err := ls.Target(fh); !errors.Is(err, services.ErrBadUpload) {
			t.Fatalf("%s accepted: %v", fh.Filename, err)
		}
	}
}

func TestLogoResolve(t *testing.T) {
	ls, err := services.NewLogoStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	full, ok := ls.Resolve("abc.png")
	if !ok || full != filepath.Join(ls.Dir, "abc.png") {
		t.Fatalf("resolve abc.png: %q %v", full, ok)
	}
	for _, p := range []string{"", "../x", "..%2fx", "%2E%2E/x", "a/b.png", "/etc/passwd", "x\x00.png"} {
		if _, ok := ls.Resolve(p); ok {
			t.Fatalf("%q resolved", p)
		}
	}
}
