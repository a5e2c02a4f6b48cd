package extract

import (
	"context"
	"encoding/json"
	"strings"

	"medidoc-backend/internal/llm"
	"medidoc-backend/internal/shared/telemetry"
)

// maxContextChars caps how much document text the model ever sees.
const maxContextChars = 2000

const systemPrompt = `You are an expert medical data extraction assistant. Analyze the provided text from a medical document and extract key information.
Respond ONLY with a valid JSON object containing exactly these keys:
- "category": Choose from "Prescription", "Lab Report", "Medical Bill", "Pharmacy Bill", "Discharge Summary", "Consultation Notes", "Other"
- "document_date": Date in YYYY-MM-DD format. If not found, use "N/A"
- "doctor_name": Full name of the doctor. If not found, use "N/A"
- "hospital_name": Name of hospital/clinic. If not found, use "N/A"
- "summary": A brief, clear summary in 1-2 sentences describing what this document is about

Return only the JSON object, no other text.`

// Classifier turns extracted document text into structured fields.
type Classifier struct {
	LLM llm.Client
}

// NewClassifier constructs a Classifier.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{LLM: client}
}

// Classify asks the model for the five structured fields. It always returns
// a usable record: empty input short-circuits to the Empty Document record
// without any model call, and any call or parse failure yields the fixed
// fallback record.
func (c *Classifier) Classify(ctx context.Context, text string) Fields {
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyDocumentFields()
	}
	if len(text) > maxContextChars {
		text = text[:maxContextChars]
	}

	raw, err := c.LLM.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		User:        "Medical document text:\n\n" + text,
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		telemetry.Error("extract.llm.failed", map[string]any{"err": err.Error()})
		return FallbackFields()
	}

	fields, err := parseResponse(raw)
	if err != nil {
		telemetry.Error("extract.parse.failed", map[string]any{
			"err": err.Error(),
			"raw": truncateForLog(raw),
		})
		return FallbackFields()
	}
	return fields
}

// parseResponse strips an optional code fence, parses the JSON object,
// checks it against the output schema and backfills missing keys with "N/A".
func parseResponse(raw string) (Fields, error) {
	cleaned := stripCodeFence(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Fields{}, err
	}
	if err := fieldsSchema.Validate(parsed); err != nil {
		return Fields{}, err
	}

	return Fields{
		Category:     stringOrNA(parsed, "category"),
		DocumentDate: stringOrNA(parsed, "document_date"),
		DoctorName:   stringOrNA(parsed, "doctor_name"),
		HospitalName: stringOrNA(parsed, "hospital_name"),
		Summary:      stringOrNA(parsed, "summary"),
	}, nil
}

// stripCodeFence removes a leading ```json (or bare ```) marker and a
// trailing ``` marker; models are known to wrap JSON in a fenced block.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

func stringOrNA(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return NotAvailable
}

func truncateForLog(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
