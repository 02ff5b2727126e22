package pack

import (
	"regexp"
	"strings"

	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/roster"
)

// placeholderRegex matches {{name}} tokens in user templates.
var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Compiled is a ready-to-send prompt for one role.
type Compiled struct {
	System string
	User   string
	Params map[string]any
}

// CompileForRole builds the prompt for a role: the BASE system prompt
// concatenated with the role's own, the user template rendered against data,
// and BASE params merged under role params (role wins on collision).
// Placeholders outside the entry's allow-list render as empty strings rather
// than erroring or leaking the literal token.
func CompileForRole(p *Pack, role string, data map[string]string) (*Compiled, error) {
	base := p.Entry(roster.RoleBase)
	if base == nil {
		return nil, errors.NewMissingEntry(p.Slug, p.Locale, roster.RoleBase)
	}
	target := p.Entry(role)
	if target == nil {
		return nil, errors.NewMissingEntry(p.Slug, p.Locale, role)
	}

	allowed := make(map[string]bool, len(target.AllowedPlaceholders))
	for _, name := range target.AllowedPlaceholders {
		allowed[name] = true
	}

	user := placeholderRegex.ReplaceAllStringFunc(target.UserTemplate, func(tok string) string {
		name := placeholderRegex.FindStringSubmatch(tok)[1]
		if !allowed[name] {
			return ""
		}
		return data[name]
	})

	params := make(map[string]any, len(base.Params)+len(target.Params))
	for k, v := range base.Params {
		params[k] = v
	}
	for k, v := range target.Params {
		params[k] = v
	}

	system := strings.TrimSpace(base.SystemPrompt)
	if rolePrompt := strings.TrimSpace(target.SystemPrompt); rolePrompt != "" {
		if system != "" {
			system += "\n\n"
		}
		system += rolePrompt
	}

	return &Compiled{System: system, User: user, Params: params}, nil
}
