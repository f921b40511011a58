package config_test

import (
	"os"
	"testing"
)

var configKeys = []string{
	"PORT", "DATABASE_URL", "STORAGE_BACKEND", "DATA_FILE", "UPLOAD_DIR", "LOG_FILE",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "SESSION_SECRET", "SESSION_TTL", "MAX_UPLOAD_BYTES",
}

// clearEnv unsets every configuration variable for the duration of the test.
// Values a .env file loads are removed again by the same cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
