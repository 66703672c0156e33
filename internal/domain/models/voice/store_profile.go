package voice

import "strings"

// StoreProfile is opaque to the session engine beyond what it takes to
// build a system prompt and authorize the session. It is read once at
// session open (by the tenant resolver) and is immutable for the
// session's lifetime.
type StoreProfile struct {
	TenantID         string
	Persona          string
	Hours            string
	LocationNotes    string
	CustomKnowledge  string
	MenuCache        string
	Active           *bool // nil is treated as active, for records predating the flag
}

// IsActive treats a nil flag as active, for backward compatibility with
// records created before the flag existed.
func (p *StoreProfile) IsActive() bool {
	if p.Active == nil {
		return true
	}
	return *p.Active
}

const fallbackPersona = "You are a friendly phone assistant helping a caller with their order."

// SystemPrompt concatenates, in order and separated by blank lines,
// whichever of persona/hours/location/knowledge/menu are non-empty. If all
// are empty it falls back to a minimal persona, per spec.md §4.5.1.
func (p *StoreProfile) SystemPrompt() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.Persona, p.Hours, p.LocationNotes, p.CustomKnowledge, p.MenuCache} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	if len(parts) == 0 {
		return fallbackPersona
	}
	return strings.Join(parts, "\n\n")
}
