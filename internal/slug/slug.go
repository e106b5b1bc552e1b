// Package slug derives URL-safe identifiers from free-text titles and
// resolves collisions within a collection by probing for existing slugs and
// appending a numeric suffix.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	disallowed     = regexp.MustCompile(`[^\w-]+`)
	hyphenRuns     = regexp.MustCompile(`-{2,}`)
)

// Checker reports whether a slug is already taken by a document other than
// the one identified by excludeID. Pass excludeID 0 for new documents.
type Checker interface {
	SlugInUse(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, slug string, excludeID int64) (bool, error)

func (f CheckerFunc) SlugInUse(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return f(ctx, slug, excludeID)
}

// Sanitize builds the base slug candidate: lowercase, whitespace runs
// collapsed to a single hyphen, any character outside [A-Za-z0-9_-] removed,
// hyphen runs collapsed and trimmed. Input that sanitizes to the empty
// string falls back to "entry" so a slug is never empty.
func Sanitize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "entry"
	}
	return s
}

// Resolve returns a slug for name that is unique within the collection the
// checker probes, excluding the document identified by excludeID. On
// collision it appends -1, -2, ... until a free candidate is found.
//
// The probe loop is an optimization, not the uniqueness guarantee: two
// concurrent creates with the same name can both observe no collision. The
// storage layer must carry a unique index as the backstop.
func Resolve(ctx context.Context, name string, excludeID int64, c Checker) (string, error) {
	base := Sanitize(name)
	candidate := base
	for n := 1; ; n++ {
		inUse, err := c.SlugInUse(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
