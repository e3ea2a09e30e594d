package analysis

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/abhisek/smartstudy/internal/llm"
	"github.com/abhisek/smartstudy/internal/study"
)

// StripFence removes a leading ``` fence (with an optional language tag)
// and a trailing ``` fence. Unfenced input is returned trimmed.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// The language tag runs to the end of the first line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		tag := strings.TrimSpace(s[:nl])
		if !strings.ContainsAny(tag, "{[") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Normalizer turns raw model output into a validated study package. The
// model's strings are kept exactly as written; terminal output strips control
// sequences from them.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses raw and validates it. Every failure is a
// *MalformedResponseError whose Cause is readable by an end user.
func (n *Normalizer) Normalize(raw string) (*study.Package, error) {
	body := StripFence(raw)
	malformed := func(cause string, err error) error {
		return &MalformedResponseError{Cause: cause, Raw: raw, Err: err}
	}

	if body == "" {
		return nil, malformed("empty response", nil)
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, malformed("response is not valid JSON", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, malformed("response is not a JSON object", nil)
	}

	if s, ok := obj["summary"].(string); !ok || strings.TrimSpace(s) == "" {
		return nil, malformed("missing summary", nil)
	}
	if a, ok := obj["keyConcepts"].([]any); !ok || len(a) == 0 {
		return nil, malformed("missing key concepts", nil)
	}
	if a, ok := obj["quiz"].([]any); !ok || len(a) == 0 {
		return nil, malformed("missing quiz", nil)
	}

	if err := llm.ValidateValue(StudyPackageSchema, doc, body); err != nil {
		return nil, malformed("response does not match the study package structure", err)
	}

	var pkg study.Package
	if err := json.Unmarshal([]byte(body), &pkg); err != nil {
		return nil, malformed("response fields have unexpected types", err)
	}

	if err := pkg.Validate(); err != nil {
		return nil, malformed(err.Error(), err)
	}
	return &pkg, nil
}

// Cause returns the human-readable cause of a malformed response error,
// or "" if err is not one.
func Cause(err error) string {
	var m *MalformedResponseError
	if errors.As(err, &m) {
		return m.Cause
	}
	return ""
}
