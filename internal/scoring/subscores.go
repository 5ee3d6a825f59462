package scoring

import (
	"strings"
	"time"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Relative weight of a nice-to-have skill versus a required one.
const niceToHaveWeight = 0.5

// computeSkillOverlap calculates the weighted overlap between a job's skill
// demands and a profile's skills, weighted by proficiency and recency.
// Returns the score (0-1), matched skill names, missing skill names, and the
// subset of matches where the profile's depth falls well short of full credit.
func computeSkillOverlap(profile *types.SkillProfile, job *types.JobRecord, now time.Time) (float64, []string, []string, []string) {
	type target struct {
		name   string
		weight float64
	}

	var targets []target
	seen := make(map[string]bool)
	for _, s := range job.Required {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, target{name: s, weight: 1.0})
	}
	for _, s := range job.NiceToHave {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, target{name: s, weight: niceToHaveWeight})
	}

	if len(targets) == 0 {
		return 0.5, nil, nil, nil // job states no skills; treat as neutral
	}

	totalWeight := 0.0
	matchedWeight := 0.0
	var matched, missing, limited []string
	for _, tg := range targets {
		totalWeight += tg.weight
		entry, ok := profile.Lookup(tg.name)
		if !ok {
			missing = append(missing, tg.name)
			continue
		}
		credit := entry.ProficiencyWeight() * entry.RecencyWeight(now)
		matchedWeight += tg.weight * credit
		matched = append(matched, tg.name)
		if credit < 0.7 {
			limited = append(limited, tg.name)
		}
	}

	return matchedWeight / totalWeight, matched, missing, limited
}

// experienceBucket maps years of experience to a coarse seniority bucket.
func experienceBucket(years float64) int {
	switch {
	case years < 2:
		return 0
	case years < 5:
		return 1
	case years < 10:
		return 2
	default:
		return 3
	}
}

// computeSeniorityFit scores the distance between the seniority bucket the
// job implies and the one the profile implies. Jobs that state no experience
// requirement score neutral.
func computeSeniorityFit(profile *types.SkillProfile, job *types.JobRecord) float64 {
	if job.YearsMin <= 0 {
		return 0.5
	}
	distance := experienceBucket(float64(job.YearsMin)) - experienceBucket(profile.TotalYears)
	if distance < 0 {
		distance = -distance
	}
	return 1.0 - float64(distance)/3.0
}

// locationFitMatrix maps (preference, job kind) to a compatibility score.
var locationFitMatrix = map[string]map[string]float64{
	types.LocationRemote: {
		types.LocationRemote: 1.0,
		types.LocationHybrid: 0.6,
		types.LocationOnsite: 0.2,
	},
	types.LocationHybrid: {
		types.LocationRemote: 0.8,
		types.LocationHybrid: 1.0,
		types.LocationOnsite: 0.6,
	},
	types.LocationOnsite: {
		types.LocationRemote: 0.4,
		types.LocationHybrid: 0.8,
		types.LocationOnsite: 1.0,
	},
}

// computeLocationFit scores the job's work mode against the stated user
// preference. Unknown on either side is neutral.
func computeLocationFit(profile *types.SkillProfile, job *types.JobRecord) float64 {
	row, ok := locationFitMatrix[strings.ToLower(profile.LocationPref)]
	if !ok {
		return 0.5
	}
	score, ok := row[strings.ToLower(job.LocationKind)]
	if !ok {
		return 0.5
	}
	return score
}

// computeCompensationFit scores the overlap between the job's stated range
// and the user's expectation. Undisclosed ranges on either side are neutral
// rather than penalized.
func computeCompensationFit(profile *types.SkillProfile, job *types.JobRecord) float64 {
	want := profile.PreferredRange
	offer := job.Compensation
	if want == nil || offer == nil {
		return 0.5
	}
	if offer.Max < want.Min {
		return 0
	}
	if offer.Min >= want.Min {
		return 1.0
	}
	return want.Overlap(offer)
}
