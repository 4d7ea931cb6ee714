package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("TALENTALIGN_TEST_SECRET", " from-env ")

	dir := t.TempDir()
	file := filepath.Join(dir, "token")
	if err := os.WriteFile(file, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{name: "file wins", src: Source{File: file, Value: "inline", Env: "TALENTALIGN_TEST_SECRET"}, want: "from-file"},
		{name: "value over env", src: Source{Value: " inline ", Env: "TALENTALIGN_TEST_SECRET"}, want: "inline"},
		{name: "env", src: Source{Env: "TALENTALIGN_TEST_SECRET"}, want: "from-env"},
	}

	for _, tt := range tests {
		got, err := Load(tt.src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	if _, err := Load(Source{Name: "gemini api key", File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	if _, err := Load(Source{File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected missing file error")
	}

	if _, err := Load(Source{Name: "hh.ru token"}); err == nil || !strings.Contains(err.Error(), "hh.ru token is not configured") {
		t.Fatalf("expected not configured error, got %v", err)
	}
}

func TestOptional(t *testing.T) {
	t.Setenv("TALENTALIGN_TEST_EMPTY", "")

	got, err := Optional(Source{Name: "hh.ru token", Env: "TALENTALIGN_TEST_EMPTY"})
	if err != nil || got != "" {
		t.Fatalf("expected empty optional secret, got %q, %v", got, err)
	}

	got, err = Optional(Source{Value: "abc"})
	if err != nil || got != "abc" {
		t.Fatalf("expected inline secret, got %q, %v", got, err)
	}
}
