package pack

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// digest returns the hex sha256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// EntryHash computes a content-addressed digest over all fields of an entry.
// Identical content always yields an identical hash; changing any field
// changes it. Params marshal through encoding/json, whose map key ordering
// is deterministic (sorted), so the digest is stable across processes.
func EntryHash(e *Entry) string {
	params, _ := json.Marshal(e.Params)
	placeholders := make([]string, len(e.AllowedPlaceholders))
	copy(placeholders, e.AllowedPlaceholders)
	sort.Strings(placeholders)

	var b strings.Builder
	b.WriteString("role:")
	b.WriteString(e.Role)
	b.WriteString("\nsystem:")
	b.WriteString(e.SystemPrompt)
	b.WriteString("\nuser:")
	b.WriteString(e.UserTemplate)
	b.WriteString("\nparams:")
	b.Write(params)
	b.WriteString("\nplaceholders:")
	b.WriteString(strings.Join(placeholders, ","))
	return digest(b.String())
}

// Hash computes a stable digest over the whole pack, used as a
// reproducibility header downstream. Entries contribute in role order so the
// result is independent of storage order.
func Hash(p *Pack) string {
	hashes := make([]string, 0, len(p.Entries))
	for i := range p.Entries {
		e := &p.Entries[i]
		hashes = append(hashes, e.Role+":"+EntryHash(e))
	}
	sort.Strings(hashes)

	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s/v%d\n", p.Slug, p.Locale, p.Version)
	b.WriteString(p.SchemaJSON)
	b.WriteString("\n")
	b.WriteString(strings.Join(hashes, "\n"))
	return digest(b.String())
}
