package roster

import (
	"math"
	"testing"
)

func TestResolve_DefaultQuartet(t *testing.T) {
	lineup := Resolve(nil, nil)

	if lineup.Source != "default" {
		t.Errorf("Source = %q, want %q", lineup.Source, "default")
	}
	want := []string{RoleStrategist, RoleFuturist, RoleBehaviorist, RoleAdvisor}
	keys := lineup.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	// ADVISOR must come last so its prompt can embed prior outputs.
	if keys[len(keys)-1] != RoleAdvisor {
		t.Errorf("last role = %q, want ADVISOR", keys[len(keys)-1])
	}
}

func TestResolve_PresetWinsOverCustom(t *testing.T) {
	preset := []RoleWeight{
		{RoleKey: RoleFuturist, Weight: 0.5, Position: 1},
		{RoleKey: RoleAdvisor, Weight: 0.5, Position: 2},
	}
	custom := []RoleWeight{
		{RoleKey: RoleStrategist, Weight: 1, Position: 1},
	}

	lineup := Resolve(preset, custom)
	if lineup.Source != "preset" {
		t.Errorf("Source = %q, want %q", lineup.Source, "preset")
	}
	if len(lineup.Roles) != 2 || lineup.Roles[0].RoleKey != RoleFuturist {
		t.Errorf("Roles = %v, want preset roles", lineup.Roles)
	}
}

func TestResolve_AliasesFolded(t *testing.T) {
	custom := []RoleWeight{
		{RoleKey: "VISIONARY", Weight: 0.4, Position: 1},
		{RoleKey: "CHAIRMAN", Weight: 0.6, Position: 2},
	}

	lineup := Resolve(nil, custom)
	if lineup.Roles[0].RoleKey != RoleFuturist {
		t.Errorf("Roles[0] = %q, want FUTURIST (folded from VISIONARY)", lineup.Roles[0].RoleKey)
	}
	if lineup.Roles[1].RoleKey != RoleAdvisor {
		t.Errorf("Roles[1] = %q, want ADVISOR (folded from CHAIRMAN)", lineup.Roles[1].RoleKey)
	}
}

func TestResolve_DuplicatesAndUnknownDropped(t *testing.T) {
	custom := []RoleWeight{
		{RoleKey: RoleStrategist, Weight: 0.5, Position: 2},
		{RoleKey: "TACTICIAN", Weight: 0.3, Position: 1}, // alias of STRATEGIST, duplicate
		{RoleKey: "JESTER", Weight: 0.2, Position: 3},    // unsupported
		{RoleKey: RoleFuturist, Weight: 0.5, Position: 1},
	}

	lineup := Resolve(nil, custom)
	if len(lineup.Roles) != 2 {
		t.Fatalf("Roles = %v, want 2 after dedupe/drop", lineup.Roles)
	}
	// Sorted by position: FUTURIST (1) before STRATEGIST (2).
	if lineup.Roles[0].RoleKey != RoleFuturist || lineup.Roles[1].RoleKey != RoleStrategist {
		t.Errorf("Roles order = %v, want FUTURIST then STRATEGIST", lineup.Keys())
	}
	// Positions reassigned densely.
	if lineup.Roles[0].Position != 1 || lineup.Roles[1].Position != 2 {
		t.Errorf("positions = %d,%d, want 1,2", lineup.Roles[0].Position, lineup.Roles[1].Position)
	}
}

func TestResolve_AllUnknownFallsBackToDefault(t *testing.T) {
	custom := []RoleWeight{
		{RoleKey: "JESTER", Weight: 1, Position: 1},
	}

	lineup := Resolve(nil, custom)
	if lineup.Source != "default" {
		t.Errorf("Source = %q, want default fallback", lineup.Source)
	}
	if len(lineup.Roles) != 4 {
		t.Errorf("Roles = %v, want default quartet", lineup.Keys())
	}
}

func TestResolve_WeightsNormalized(t *testing.T) {
	custom := []RoleWeight{
		{RoleKey: RoleStrategist, Weight: 0.1, Position: 1},
		{RoleKey: RoleFuturist, Weight: 0.1, Position: 2},
	}

	lineup := Resolve(nil, custom)

	sum := 0.0
	for _, rw := range lineup.Roles {
		sum += rw.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("resolved weights sum = %v, want 1", sum)
	}
	for _, rw := range lineup.Roles {
		if math.Abs(rw.Weight-0.5) > 1e-9 {
			t.Errorf("%s weight = %v, want 0.5", rw.RoleKey, rw.Weight)
		}
	}
}

func TestResolve_AllZeroWeightsUniform(t *testing.T) {
	custom := []RoleWeight{
		{RoleKey: RoleStrategist, Weight: 0, Position: 1},
		{RoleKey: RoleFuturist, Weight: 0, Position: 2},
		{RoleKey: RoleBehaviorist, Weight: 0, Position: 3},
	}

	lineup := Resolve(nil, custom)
	for _, rw := range lineup.Roles {
		if math.Abs(rw.Weight-1.0/3.0) > 1e-9 {
			t.Errorf("%s weight = %v, want uniform third", rw.RoleKey, rw.Weight)
		}
	}
}

// A lineup sent with tiny raw weights must not let a rule shift a role's
// effective weight past the per-role cap once everything is on the
// normalized scale.
func TestResolve_HeuristicShiftBoundedAfterNormalization(t *testing.T) {
	lineup := Resolve(nil, []RoleWeight{
		{RoleKey: RoleStrategist, Weight: 0.1, Position: 1},
		{RoleKey: RoleFuturist, Weight: 0.1, Position: 2},
	})
	rules := []HeuristicRule{
		{Keyword: "risk", RoleKey: RoleStrategist, Delta: 0.15},
	}

	base := lineup.WeightMap()
	adjusted, fired := ApplyHeuristics(base, "risk risk", rules)
	if len(fired) != 1 {
		t.Fatalf("fired = %v, want one rule", fired)
	}

	shift := math.Abs(adjusted[RoleStrategist] - base[RoleStrategist])
	if shift > HeuristicCap+1e-9 {
		t.Errorf("effective shift %v exceeds the %v per-role cap", shift, HeuristicCap)
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{RoleStrategist, RoleStrategist, true},
		{"PSYCHOLOGIST", RoleBehaviorist, true},
		{RoleBase, "", false},
		{"JESTER", "", false},
	}
	for _, tc := range cases {
		got, ok := Canonical(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Canonical(%q) = %q,%v, want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
