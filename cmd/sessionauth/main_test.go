package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/password"
)

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    int
		want time.Duration
	}{
		{0, 1},
		{50, 5},
		{99, 9},
		{100, 10},
	}
	for _, tt := range tests {
		if got := percentile(samples, tt.p); got != tt.want {
			t.Fatalf("percentile(%d) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestReadPassword(t *testing.T) {
	got, err := readPassword(nil, strings.NewReader("from stdin\r\nignored\n"))
	if err != nil || got != "from stdin" {
		t.Fatalf("stdin: %q %v", got, err)
	}
	got, err = readPassword([]string{"from arg"}, strings.NewReader(""))
	if err != nil || got != "from arg" {
		t.Fatalf("arg: %q %v", got, err)
	}
	if _, err := readPassword(nil, strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SESSIONAUTH_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SESSIONAUTH_TEST_VALUE", "")
	os.Unsetenv("SESSIONAUTH_TEST_VALUE")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("SESSIONAUTH_TEST_VALUE"); got != "from-file" {
		t.Fatalf("value = %q", got)
	}
}

func TestHashPasswordCommand(t *testing.T) {
	t.Setenv("AUTH_TYPE", "")

	cmd := hashPasswordCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"correct horse battery"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	hash := strings.TrimSpace(out.String())
	hasher, err := password.NewArgon2(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := hasher.Verify("correct horse battery", hash)
	if err != nil || !ok {
		t.Fatalf("Verify(%q) = %v, %v", hash, ok, err)
	}
}

func TestRunLoadtestInMemory(t *testing.T) {
	t.Setenv("AUTH_TYPE", "")

	var out bytes.Buffer
	err := runLoadtest(context.Background(), &out, loadtestOptions{
		authType:    "session_exp_auth",
		sessions:    50,
		concurrency: 4,
		ops:         200,
		ttl:         time.Minute,
	})
	if err != nil {
		t.Fatalf("runLoadtest: %v", err)
	}
	if !strings.Contains(out.String(), "resolve: ops=200 failures=0") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "destroyed=50") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunLoadtestPersistentOverMiniredis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	err := runLoadtest(context.Background(), &out, loadtestOptions{
		authType:    "session_db_auth",
		sessions:    20,
		concurrency: 2,
		ops:         40,
		ttl:         time.Minute,
	})
	if err != nil {
		t.Fatalf("runLoadtest: %v", err)
	}
	if !strings.Contains(out.String(), "destroyed=20") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
