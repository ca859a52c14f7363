// internal/intake/validate/schema.go
package validate

// submitRequestSchema is the JSON schema every inbound submission must pass
// before any I/O happens. Enum values mirror the classification constants in
// internal/models.
const submitRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["tenantId", "postId", "applicant", "workAuth", "source"],
	"properties": {
		"tenantId": {
			"type": "string",
			"minLength": 1
		},
		"postId": {
			"type": "string",
			"minLength": 1
		},
		"applicant": {
			"type": "object",
			"required": ["name", "email"],
			"properties": {
				"name": {
					"type": "string",
					"minLength": 1,
					"maxLength": 200
				},
				"email": {
					"type": "string",
					"format": "email"
				},
				"phone": {
					"type": "string"
				},
				"resumeUrl": {
					"type": "string"
				}
			}
		},
		"workAuth": {
			"type": "string",
			"enum": ["citizen", "permanent_resident", "work_visa", "other"]
		},
		"answers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["questionId", "answer"],
				"properties": {
					"questionId": {
						"type": "string",
						"minLength": 1
					},
					"answer": {
						"type": "string"
					}
				}
			}
		},
		"source": {
			"type": "string",
			"enum": ["QR", "URL", "referral", "Companion", "Indeed", "LinkedIn"]
		},
		"utm": {
			"type": "object",
			"properties": {
				"source":   {"type": "string"},
				"medium":   {"type": "string"},
				"campaign": {"type": "string"},
				"term":     {"type": "string"},
				"content":  {"type": "string"}
			},
			"additionalProperties": false
		},
		"referralCode": {
			"type": "string"
		},
		"consents": {
			"type": "array",
			"items": {
				"type": "string"
			}
		}
	}
}`
