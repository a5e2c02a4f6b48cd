package extract

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fieldsSchema pins the shape of the model's reply: any of the five keys that
// are present must be strings. Keys may be absent (backfilled with "N/A") and
// unknown extra keys are tolerated.
const fieldsSchemaJSON = `{
	"type": "object",
	"properties": {
		"category": {"type": "string"},
		"document_date": {"type": "string"},
		"doctor_name": {"type": "string"},
		"hospital_name": {"type": "string"},
		"summary": {"type": "string"}
	}
}`

var fieldsSchema = jsonschema.MustCompileString("document_fields.json", fieldsSchemaJSON)
