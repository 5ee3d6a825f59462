package analysis

import (
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed skill_profile_schema.json
var skillProfileSchema string

// validateParsedProfile checks parse-resume output against the skill profile
// schema before it is decoded or cached.
func validateParsedProfile(raw string) error {
	schemaLoader := gojsonschema.NewStringLoader(skillProfileSchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &InvalidResultError{
			Kind:    KindParseResume,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}

	message := "schema validation failed"
	if errs := result.Errors(); len(errs) > 0 {
		field := errs[0].Field()
		if field == "" {
			field = "(root)"
		}
		message = field + ": " + errs[0].Description()
	}
	return &InvalidResultError{Kind: KindParseResume, Message: message}
}
