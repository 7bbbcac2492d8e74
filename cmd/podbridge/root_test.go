// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestParseKeyValues(t *testing.T) {
	t.Parallel()

	kv, err := parseKeyValues([]string{"HTTP_PROXY=http://proxy:3128", "EMPTY=", "CFLAGS=-DDEBUG=1"})
	if err != nil {
		t.Fatalf("parseKeyValues() returned error: %v", err)
	}

	if kv["HTTP_PROXY"] != "http://proxy:3128" {
		t.Errorf("HTTP_PROXY = %q, want http://proxy:3128", kv["HTTP_PROXY"])
	}

	if v, ok := kv["EMPTY"]; !ok || v != "" {
		t.Errorf("EMPTY = %q (present=%v), want empty value present", v, ok)
	}

	// Only the first "=" splits, values keep the rest.
	if kv["CFLAGS"] != "-DDEBUG=1" {
		t.Errorf("CFLAGS = %q, want -DDEBUG=1", kv["CFLAGS"])
	}
}

func TestParseKeyValues_Invalid(t *testing.T) {
	t.Parallel()

	for _, entry := range []string{"no-separator", "=value"} {
		if _, err := parseKeyValues([]string{entry}); err == nil {
			t.Errorf("parseKeyValues(%q) returned no error", entry)
		} else if !strings.Contains(err.Error(), "KEY=VALUE") {
			t.Errorf("parseKeyValues(%q) error = %v, want mention of KEY=VALUE", entry, err)
		}
	}
}

func TestParseKeyValues_Empty(t *testing.T) {
	t.Parallel()

	kv, err := parseKeyValues(nil)
	if err != nil {
		t.Fatalf("parseKeyValues(nil) returned error: %v", err)
	}
	if kv != nil {
		t.Errorf("parseKeyValues(nil) = %v, want nil", kv)
	}
}

func TestRootCommandWiring(t *testing.T) {
	t.Parallel()

	want := []string{"info", "images", "inspect", "build", "run", "logs", "push", "rm", "stop", "kill", "wait"}
	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}
