//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proficiency constants for skill entries
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyExpert       = "expert"
)

// SkillEntry is one (skill, proficiency, years, recency) tuple from a parsed resume
type SkillEntry struct {
	Skill       string     `json:"skill"`
	Proficiency string     `json:"proficiency"`
	Years       float64    `json:"years"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
}

// ProficiencyWeight maps a proficiency level to a multiplier in (0,1].
// Unknown levels count as intermediate.
func (e *SkillEntry) ProficiencyWeight() float64 {
	switch strings.ToLower(e.Proficiency) {
	case ProficiencyExpert:
		return 1.0
	case ProficiencyIntermediate:
		return 0.6
	case ProficiencyBeginner:
		return 0.3
	default:
		return 0.6
	}
}

// RecencyWeight decays linearly from 1.0 (used now) to 0.2 over five years.
// Entries with no last-used date get a neutral 0.6.
func (e *SkillEntry) RecencyWeight(now time.Time) float64 {
	if e.LastUsed == nil {
		return 0.6
	}
	years := now.Sub(*e.LastUsed).Hours() / (24 * 365.25)
	if years <= 0 {
		return 1.0
	}
	if years >= 5 {
		return 0.2
	}
	return 1.0 - years*(0.8/5.0)
}

// SkillProfile is an immutable snapshot of skills extracted from one resume
// version. Reparsing a resume supersedes the snapshot with a new one.
type SkillProfile struct {
	ID              uuid.UUID          `json:"id"`
	ResumeVersionID uuid.UUID          `json:"resume_version_id"`
	Skills          []SkillEntry       `json:"skills"`
	TotalYears      float64            `json:"total_years"`
	PreferredRange  *CompensationRange `json:"preferred_range,omitempty"`
	LocationPref    string             `json:"location_pref,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Lookup returns the entry for a skill name, matched case-insensitively.
func (p *SkillProfile) Lookup(skill string) (SkillEntry, bool) {
	needle := strings.ToLower(strings.TrimSpace(skill))
	for _, e := range p.Skills {
		if strings.ToLower(strings.TrimSpace(e.Skill)) == needle {
			return e, true
		}
	}
	return SkillEntry{}, false
}
