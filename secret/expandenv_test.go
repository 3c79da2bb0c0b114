package secret

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${MISSING_B} c=${MISSING_A}")
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got: %v", err)
	}
	if !strings.HasSuffix(err.Error(), "MISSING_A, MISSING_B") {
		t.Fatalf("expected sorted missing var names in error, got: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")

	out, err := ExpandEnvStrict("$$${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "$y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "$y")
	}
}

func TestExpandEnvStrict_BareVarIsLenient(t *testing.T) {
	out, err := ExpandEnvStrict("a$MEMO_SECRET_TEST_UNSET/b")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "a/b" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "a/b")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/memo")
	t.Setenv("PROJECT", "pipeline")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", "/home/memo"},
		{"~/cache", "/home/memo/cache"},
		{"/var/cache/${PROJECT}/", "/var/cache/pipeline"},
		{".cache//file_cache", filepath.Join(".cache", "file_cache")},
		{"~other/cache", "~other/cache"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ExpandPath(tc.in)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExpandPath_Missing(t *testing.T) {
	if _, err := ExpandPath("${MEMO_SECRET_TEST_UNSET}/cache"); !errors.Is(err, ErrMissingEnv) {
		t.Errorf("ExpandPath() error = %v, want ErrMissingEnv", err)
	}
}
