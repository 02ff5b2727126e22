package ops

import (
	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/pack"
	"github.com/hpungsan/quorum/internal/roster"
)

// PackInfoInput contains parameters for the PackInfo operation.
type PackInfoInput struct {
	Slug    string // defaults from config
	Locale  string // defaults from config
	Version int    // 0 = active version
}

// PackInfoOutput describes the pack a consultation would run with.
type PackInfoOutput struct {
	Slug      string   `json:"slug"`
	Locale    string   `json:"locale"`
	Version   int      `json:"version"`
	Hash      string   `json:"hash"`
	Roles     []string `json:"roles"`
	HasSchema bool     `json:"has_schema"`
}

// PackInfo resolves and describes the active (or pinned) prompt pack.
func PackInfo(cache *pack.Cache, cfg *config.Config, input PackInfoInput) (*PackInfoOutput, error) {
	slug := input.Slug
	if slug == "" {
		slug = cfg.PackSlug
	}
	locale := input.Locale
	if locale == "" {
		locale = cfg.PackLocale
	}

	p, hash, err := cache.Get(slug, locale, input.Version)
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		if e.Role == roster.RoleBase {
			continue
		}
		roles = append(roles, e.Role)
	}

	return &PackInfoOutput{
		Slug:      p.Slug,
		Locale:    p.Locale,
		Version:   p.Version,
		Hash:      hash,
		Roles:     roles,
		HasSchema: p.SchemaJSON != "",
	}, nil
}
