package roster

import "sort"

// RoleWeight pairs a role key with its raw weight and requested position.
type RoleWeight struct {
	RoleKey  string  `json:"role_key"`
	Weight   float64 `json:"weight"`
	Position int     `json:"position"`
}

// Lineup is the resolved, ordered, weighted set of roles for one request.
type Lineup struct {
	Roles  []RoleWeight `json:"roles"`
	Source string       `json:"source"` // "preset", "custom", or "default"
}

// DefaultLineup returns the fixed default quartet with uniform weights.
func DefaultLineup() Lineup {
	roles := make([]RoleWeight, 0, len(personaOrder))
	for i, key := range personaOrder {
		roles = append(roles, RoleWeight{RoleKey: key, Weight: 0.25, Position: i + 1})
	}
	return Lineup{Roles: roles, Source: "default"}
}

// Resolve determines the active lineup. Preset roles win over custom roles;
// with neither, the default quartet applies. Legacy keys are folded to their
// canonical form, duplicates collapse onto the first occurrence, and unknown
// keys are dropped. The result is ordered by position ascending with
// positions reassigned to a dense 1..N sequence, and its weights are
// re-normalized to sum to 1 so later per-role adjustments bind against the
// effective weights, not whatever scale the caller sent.
func Resolve(presetRoles, customRoles []RoleWeight) Lineup {
	var raw []RoleWeight
	source := "default"
	switch {
	case len(presetRoles) > 0:
		raw = presetRoles
		source = "preset"
	case len(customRoles) > 0:
		raw = customRoles
		source = "custom"
	default:
		return DefaultLineup()
	}

	seen := make(map[string]bool)
	roles := make([]RoleWeight, 0, len(raw))
	for _, rw := range raw {
		key, ok := Canonical(rw.RoleKey)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		roles = append(roles, RoleWeight{RoleKey: key, Weight: rw.Weight, Position: rw.Position})
	}
	if len(roles) == 0 {
		return DefaultLineup()
	}

	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Position < roles[j].Position
	})
	for i := range roles {
		roles[i].Position = i + 1
	}

	weights := make(map[string]float64, len(roles))
	for _, rw := range roles {
		weights[rw.RoleKey] = rw.Weight
	}
	norm := NormalizeWeights(weights)
	for i := range roles {
		roles[i].Weight = norm[roles[i].RoleKey]
	}

	return Lineup{Roles: roles, Source: source}
}

// WeightMap projects the lineup onto a role→weight map.
func (l Lineup) WeightMap() map[string]float64 {
	m := make(map[string]float64, len(l.Roles))
	for _, rw := range l.Roles {
		m[rw.RoleKey] = rw.Weight
	}
	return m
}

// Keys returns the role keys in invocation order.
func (l Lineup) Keys() []string {
	keys := make([]string, 0, len(l.Roles))
	for _, rw := range l.Roles {
		keys = append(keys, rw.RoleKey)
	}
	return keys
}
