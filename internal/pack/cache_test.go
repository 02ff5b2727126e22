package pack

import (
	"testing"
	"time"

	"github.com/hpungsan/quorum/internal/roster"
)

func countingLoader(calls *int) LoadFunc {
	return func(slug, locale string, version int) (*Pack, error) {
		*calls++
		return &Pack{
			Slug:    slug,
			Locale:  locale,
			Version: 1,
			Entries: []Entry{{Role: roster.RoleBase, SystemPrompt: "base"}},
		}, nil
	}
}

func TestCache_ServesWithinTTL(t *testing.T) {
	calls := 0
	c := NewCache(time.Minute, countingLoader(&calls))

	p1, h1, err := c.Get("decision-council", "en", 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	p2, h2, err := c.Get("decision-council", "en", 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if p1 != p2 || h1 != h2 {
		t.Error("cached Get returned a different pack or hash")
	}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	calls := 0
	c := NewCache(10*time.Millisecond, countingLoader(&calls))

	if _, _, err := c.Get("decision-council", "en", 0); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, _, err := c.Get("decision-council", "en", 0); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("loader called %d times, want 2 after TTL expiry", calls)
	}
}

func TestCache_InvalidateForcesReload(t *testing.T) {
	calls := 0
	c := NewCache(time.Minute, countingLoader(&calls))

	if _, _, err := c.Get("decision-council", "en", 0); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	c.Invalidate()
	if _, _, err := c.Get("decision-council", "en", 0); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("loader called %d times, want 2 after Invalidate", calls)
	}
}

func TestCache_DistinctVersionsDistinctKeys(t *testing.T) {
	calls := 0
	c := NewCache(time.Minute, countingLoader(&calls))

	if _, _, err := c.Get("decision-council", "en", 0); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, _, err := c.Get("decision-council", "en", 3); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("loader called %d times, want 2 for distinct versions", calls)
	}
}

func TestApplyEnvOverrides_ReplacesSystemPrompt(t *testing.T) {
	t.Setenv("QUORUM_PROMPT_DECISION_COUNCIL_EN_STRATEGIST", "overridden persona")

	p := &Pack{
		Slug:    "decision-council",
		Locale:  "en",
		Version: 1,
		Entries: []Entry{
			{Role: roster.RoleStrategist, SystemPrompt: "original"},
			{Role: roster.RoleFuturist, SystemPrompt: "untouched"},
		},
	}

	out := ApplyEnvOverrides(p)
	if out.Entries[0].SystemPrompt != "overridden persona" {
		t.Errorf("SystemPrompt = %q, want override", out.Entries[0].SystemPrompt)
	}
	if out.Entries[1].SystemPrompt != "untouched" {
		t.Errorf("unrelated entry changed: %q", out.Entries[1].SystemPrompt)
	}
	if p.Entries[0].SystemPrompt != "original" {
		t.Error("ApplyEnvOverrides mutated its input")
	}
}

func TestOverrideFingerprint_ChangesWithEnv(t *testing.T) {
	roles := []string{roster.RoleStrategist}
	before := OverrideFingerprint("decision-council", "en", roles)

	t.Setenv("QUORUM_PROMPT_DECISION_COUNCIL_EN_STRATEGIST", "x")
	after := OverrideFingerprint("decision-council", "en", roles)

	if before == after {
		t.Error("fingerprint did not change when an override appeared")
	}
}
