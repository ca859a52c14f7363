// internal/intake/validate/validator.go
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// emailRegex backs the address check in addition to the schema's format
// keyword so a malformed address is reported even when the schema library's
// format checker is lenient.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validator parses untyped request payloads into a typed submission draft.
// It performs no I/O and has no side effects.
type Validator struct {
	schema *gojsonschema.Schema
	logger logger.Logger
}

func New(log logger.Logger) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(submitRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile submit schema: %w", err)
	}
	return &Validator{
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"stage": "validate"}),
	}, nil
}

// Validate checks the raw body against the submission schema and decodes it.
// Every violated constraint is reported, not just the first.
func (v *Validator) Validate(raw []byte) (*models.SubmitRequest, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewValidationFailedError([]string{"request body is empty"})
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Not valid JSON at all.
		return nil, apperrors.NewValidationFailedError([]string{"request body is not valid JSON"})
	}

	var violations []string
	if !result.Valid() {
		for _, desc := range result.Errors() {
			violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
	}

	var req models.SubmitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apperrors.NewValidationFailedError([]string{"request body is not valid JSON"})
	}

	req.Applicant.Name = strings.TrimSpace(req.Applicant.Name)
	req.Applicant.Email = strings.TrimSpace(req.Applicant.Email)
	req.Applicant.Phone = strings.TrimSpace(req.Applicant.Phone)

	if req.Applicant.Email != "" && !emailRegex.MatchString(req.Applicant.Email) {
		violations = appendUnique(violations, "applicant.email: Invalid email format")
	}

	if len(violations) > 0 {
		v.logger.Debug("validation failed", map[string]interface{}{
			"violationCount": len(violations),
		})
		return nil, apperrors.NewValidationFailedError(violations)
	}

	// Defaults for the open-ended collections.
	if req.Answers == nil {
		req.Answers = []models.Answer{}
	}
	if req.Consents == nil {
		req.Consents = []string{}
	}

	return &req, nil
}

func appendUnique(violations []string, msg string) []string {
	for _, v := range violations {
		if strings.Contains(v, "applicant.email") {
			return violations
		}
	}
	return append(violations, msg)
}
