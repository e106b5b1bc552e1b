package slug

import (
	"context"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading & Trailing!  ", "leading-trailing"},
		{"Go 1.22 — What's New?", "go-122-whats-new"},
		{"already-a-slug", "already-a-slug"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"--dashes--everywhere--", "dashes-everywhere"},
		{"ünïcode removed", "ncode-removed"},
		{"!!!", "entry"},
		{"", "entry"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "Go 1.22 — What's New?", "!!!"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestResolveNoConflict(t *testing.T) {
	checker := CheckerFunc(func(ctx context.Context, s string, excludeID int64) (bool, error) {
		return false, nil
	})
	got, err := Resolve(context.Background(), "My Post", 0, checker)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "my-post" {
		t.Fatalf("got %q, want my-post", got)
	}
}

func TestResolveProbesSuffixes(t *testing.T) {
	taken := map[string]bool{"my-post": true, "my-post-1": true}
	checker := CheckerFunc(func(ctx context.Context, s string, excludeID int64) (bool, error) {
		return taken[s], nil
	})
	got, err := Resolve(context.Background(), "My Post", 0, checker)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "my-post-2" {
		t.Fatalf("got %q, want my-post-2", got)
	}
}

func TestResolveExcludesSelf(t *testing.T) {
	// The row being updated owns the slug already; Resolve must keep it.
	checker := CheckerFunc(func(ctx context.Context, s string, excludeID int64) (bool, error) {
		return s == "my-post" && excludeID != 7, nil
	})
	got, err := Resolve(context.Background(), "My Post", 7, checker)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "my-post" {
		t.Fatalf("got %q, want my-post", got)
	}
}
