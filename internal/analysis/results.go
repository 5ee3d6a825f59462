package analysis

import (
	"encoding/json"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Invocation kinds
const (
	KindParseResume   = "parse-resume"
	KindCoverLetter   = "generate-cover-letter"
	KindTailorResume  = "tailor-resume"
	KindInterviewPrep = "interview-prep"
)

// Kinds lists all supported invocation kinds.
var Kinds = []string{KindParseResume, KindCoverLetter, KindTailorResume, KindInterviewPrep}

// ParsedProfile is the structured output of a parse-resume invocation. It
// carries everything needed to build a SkillProfile snapshot.
type ParsedProfile struct {
	Skills       []types.SkillEntry       `json:"skills"`
	TotalYears   float64                  `json:"total_years"`
	LocationPref string                   `json:"location_pref,omitempty"`
	Compensation *types.CompensationRange `json:"preferred_range,omitempty"`
}

// CoverLetter is the output of a generate-cover-letter invocation.
type CoverLetter struct {
	Text string `json:"text"`
}

// TailoringSuggestion is one piece of resume-tailoring advice.
type TailoringSuggestion struct {
	Section string `json:"section"`
	Advice  string `json:"advice"`
}

// TailoringAdvice is the output of a tailor-resume invocation.
type TailoringAdvice struct {
	Suggestions []TailoringSuggestion `json:"suggestions"`
}

// PrepQuestion is one anticipated interview question with guidance.
type PrepQuestion struct {
	Question string `json:"question"`
	Guidance string `json:"guidance,omitempty"`
}

// InterviewPrep is the output of an interview-prep invocation.
type InterviewPrep struct {
	Questions []PrepQuestion `json:"questions"`
}

// Result is the tagged output of one invocation. Exactly one of the kind
// fields is set, matching Kind, so consumers get typed access instead of an
// untyped blob. Raw preserves the service output as cached.
type Result struct {
	Kind        string
	ContentHash string
	Cached      bool
	Raw         []byte

	Profile     *ParsedProfile
	CoverLetter *CoverLetter
	Tailoring   *TailoringAdvice
	Prep        *InterviewPrep
}

// decodeResult fills the kind-tagged field of a Result from the raw service
// output. parse-resume output must already be schema-validated.
func decodeResult(kind string, raw []byte) (*Result, error) {
	result := &Result{Kind: kind, Raw: raw}

	switch kind {
	case KindParseResume:
		var profile ParsedProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, &InvalidResultError{Kind: kind, Message: "malformed JSON", Cause: err}
		}
		result.Profile = &profile
	case KindCoverLetter:
		result.CoverLetter = &CoverLetter{Text: string(raw)}
	case KindTailorResume:
		var advice TailoringAdvice
		if err := json.Unmarshal(raw, &advice); err != nil {
			return nil, &InvalidResultError{Kind: kind, Message: "malformed JSON", Cause: err}
		}
		result.Tailoring = &advice
	case KindInterviewPrep:
		var prep InterviewPrep
		if err := json.Unmarshal(raw, &prep); err != nil {
			return nil, &InvalidResultError{Kind: kind, Message: "malformed JSON", Cause: err}
		}
		result.Prep = &prep
	default:
		return nil, &UnknownKindError{Kind: kind}
	}
	return result, nil
}

// wantsJSON reports whether a kind expects structured JSON from the service.
func wantsJSON(kind string) bool {
	return kind != KindCoverLetter
}
