package roster

// Role keys for the council. BASE is never invoked on its own; its prompt
// entry is prepended to every persona prompt at compile time.
const (
	RoleBase        = "BASE"
	RoleStrategist  = "STRATEGIST"
	RoleFuturist    = "FUTURIST"
	RoleBehaviorist = "BEHAVIORIST"
	RoleAdvisor     = "ADVISOR" // synthesis role; sees all prior outputs
)

// RoleConsensus is the pack entry used for the final blending call. Like
// BASE it never appears in a lineup.
const RoleConsensus = "CONSENSUS"

// personaOrder is the fixed invocation order of the default quartet.
// ADVISOR must come last: its prompt embeds the other roles' raw outputs.
var personaOrder = []string{
	RoleStrategist,
	RoleFuturist,
	RoleBehaviorist,
	RoleAdvisor,
}

// aliases maps legacy role keys (still present in old presets and stored
// lineups) to their canonical replacements.
var aliases = map[string]string{
	"TACTICIAN":    RoleStrategist,
	"VISIONARY":    RoleFuturist,
	"PSYCHOLOGIST": RoleBehaviorist,
	"CHAIRMAN":     RoleAdvisor,
}

// Canonical resolves a role key to its canonical form. The second return is
// false for keys outside the supported set (including BASE, which is not a
// persona and never appears in a lineup).
func Canonical(key string) (string, bool) {
	if mapped, ok := aliases[key]; ok {
		key = mapped
	}
	for _, p := range personaOrder {
		if p == key {
			return key, true
		}
	}
	return "", false
}

// Personas returns the default quartet in invocation order.
func Personas() []string {
	out := make([]string, len(personaOrder))
	copy(out, personaOrder)
	return out
}

// IsSynthesisRole reports whether the role depends on prior role outputs.
func IsSynthesisRole(key string) bool {
	return key == RoleAdvisor
}
