package adapter

import (
	"encoding/json"
	"regexp"
	"strings"

	toon "github.com/thedataquarry/toon-go"
)

// Parse maps a TOON-formatted completion onto the signature's declared
// outputs. Extraction proceeds field by field first, which survives preamble
// chatter from weaker models; remaining gaps fall back to decoding the whole
// body as TOON, then to fenced JSON. A declared field still missing after all
// stages raises *ParseError.
func (a *Adapter) Parse(sig Signature, completion string) (map[string]any, error) {
	result := make(map[string]any)
	completion = strings.TrimSpace(completion)

	for _, field := range sig.Outputs {
		value, ok := a.extractFieldValue(completion, field)
		if ok {
			result[field.Name] = value
		}
	}

	if len(result) == len(sig.Outputs) {
		return result, nil
	}

	a.fillFromTOON(sig, completion, result)
	if len(result) == len(sig.Outputs) {
		return result, nil
	}

	a.fillFromJSON(sig, completion, result)
	if len(result) == len(sig.Outputs) {
		return result, nil
	}

	return nil, &ParseError{
		Adapter:   "toon",
		Signature: sig,
		Response:  completion,
		Partial:   result,
	}
}

// extractFieldValue tries the per-field strategies in order: a keyed tabular
// block, a simple "name: value" line, then list-shaped fallbacks.
func (a *Adapter) extractFieldValue(completion string, field Field) (any, bool) {
	if value, ok := a.extractTabularBlock(completion, field); ok {
		return value, true
	}
	if value, ok := a.extractSimpleValue(completion, field); ok {
		return value, true
	}
	if isListType(field.Type) {
		if value, ok := a.extractListValue(completion, field); ok {
			return value, true
		}
	}
	return nil, false
}

// extractTabularBlock finds a "name:" line followed by an anonymous tabular
// header and decodes the sub-block.
func (a *Adapter) extractTabularBlock(completion string, field Field) (any, bool) {
	lines := strings.Split(completion, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != field.Name+":" {
			continue
		}
		if i+1 >= len(lines) {
			return nil, false
		}
		next := strings.TrimSpace(lines[i+1])
		if !strings.HasPrefix(next, "[") || !strings.Contains(next, "{") {
			continue
		}
		block := collectBlock(lines[i+1:])
		decoded, err := toon.DecodeString(block, toon.WithStrictMode(false))
		if err != nil {
			a.logger.Debug().Err(err).Str("field", field.Name).Msg("tabular block decode failed")
			continue
		}
		return a.coerce(decoded, field.Type), true
	}
	return nil, false
}

// collectBlock gathers lines up to (not including) the next top-level
// "name:" line.
func collectBlock(lines []string) string {
	block := []string{lines[0]}
	for _, line := range lines[1:] {
		if topLevelFieldLine(line) {
			break
		}
		block = append(block, line)
	}
	return strings.Join(block, "\n")
}

var fieldLinePattern = regexp.MustCompile(`^\w[\w.]*(\[[^\]]*\])?(\{[^}]*\})?:`)

// topLevelFieldLine reports whether line opens a new unindented field.
func topLevelFieldLine(line string) bool {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return false
	}
	return fieldLinePattern.MatchString(line)
}

// extractSimpleValue finds a "name: value" line and decodes the value. The
// raw text survives as a fallback for string fields; object fields get an
// inline "k: v, k: v" parser as a last resort.
func (a *Adapter) extractSimpleValue(completion string, field Field) (any, bool) {
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(field.Name) + `:[ \t]*(.+)$`)
	match := pattern.FindStringSubmatch(completion)
	if match == nil {
		return nil, false
	}
	valueStr := strings.TrimSpace(match[1])
	if valueStr == "" || strings.HasPrefix(valueStr, "[") {
		return nil, false
	}

	decoded, err := toon.DecodeString(valueStr, toon.WithStrictMode(false))
	if err == nil {
		// A one-line object often decodes as a single key with the rest of
		// the line as its value; the inline parser recovers the real fields.
		if field.Type.Kind == KindObject && !coversFields(decoded, field.Type.Fields) {
			if obj, ok := parseInlineKeyValues(valueStr); ok && coversFields(obj, field.Type.Fields) {
				return a.coerce(obj, field.Type), true
			}
		}
		return a.coerce(decoded, field.Type), true
	}
	a.logger.Debug().Err(err).Str("field", field.Name).Msg("inline value decode failed")

	if field.Type.Kind == KindObject {
		if obj, ok := parseInlineKeyValues(valueStr); ok {
			return a.coerce(obj, field.Type), true
		}
	}
	return valueStr, true
}

// coversFields reports whether value is object-shaped and carries every
// declared field.
func coversFields(value any, fields []Field) bool {
	m := asMap(value)
	if m == nil {
		return false
	}
	for _, field := range fields {
		if _, ok := m[field.Name]; !ok {
			return false
		}
	}
	return true
}

// parseInlineKeyValues parses malformed single-line objects of the shape
// "k: v, k: v" into a map.
func parseInlineKeyValues(s string) (map[string]any, bool) {
	if !strings.Contains(s, ":") {
		return nil, false
	}
	parsed := make(map[string]any)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || !strings.Contains(part, ":") {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		key := strings.TrimSpace(kv[0])
		raw := strings.TrimSpace(kv[1])
		if key == "" {
			continue
		}
		value, err := toon.DecodeString(raw, toon.WithStrictMode(false))
		if err != nil {
			if strings.EqualFold(raw, "null") {
				value = nil
			} else {
				value = raw
			}
		}
		parsed[key] = value
	}
	if len(parsed) == 0 {
		return nil, false
	}
	return parsed, true
}

// extractListValue handles the list-shaped fallbacks: a single inline
// "name[N]: v1,v2" line, then a plain-line block under "name:".
func (a *Adapter) extractListValue(completion string, field Field) (any, bool) {
	inline := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(field.Name) + `(?:\[\d+\])?:[ \t]*(\S[^\n]*)$`)
	if match := inline.FindStringSubmatch(completion); match != nil {
		items := splitAndTrim(match[1], ",")
		if len(items) > 0 {
			return a.coerce(stringsToAny(items), field.Type), true
		}
	}

	lines := strings.Split(completion, "\n")
	opener := regexp.MustCompile(`^` + regexp.QuoteMeta(field.Name) + `(?:\[\d+\])?:\s*$`)
	for i, line := range lines {
		if !opener.MatchString(strings.TrimSpace(line)) {
			continue
		}
		var items []string
		for _, next := range lines[i+1:] {
			if topLevelFieldLine(next) {
				break
			}
			trimmed := strings.TrimSpace(next)
			if trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if len(items) > 0 {
			return a.coerce(stringsToAny(items), field.Type), true
		}
	}
	return nil, false
}

// fillFromTOON decodes the whole completion as a TOON object and takes any
// still-missing declared fields from it.
func (a *Adapter) fillFromTOON(sig Signature, completion string, result map[string]any) {
	decoded, err := toon.DecodeString(completion, toon.WithStrictMode(false))
	if err != nil {
		a.logger.Debug().Err(err).Msg("full TOON parse failed")
		return
	}
	obj, ok := decoded.(toon.Object)
	if !ok {
		return
	}
	for _, field := range sig.Outputs {
		if _, done := result[field.Name]; done {
			continue
		}
		if value, present := obj.Get(field.Name); present {
			result[field.Name] = a.coerce(value, field.Type)
		}
	}
}

// fillFromJSON strips an optional code fence and parses the completion as
// JSON, taking any still-missing declared fields.
func (a *Adapter) fillFromJSON(sig Signature, completion string, result map[string]any) {
	jsonStr := completion
	if idx := strings.Index(completion, "```json"); idx != -1 {
		jsonStr = fenceBody(completion[idx+len("```json"):])
	} else if idx := strings.Index(completion, "```"); idx != -1 {
		jsonStr = fenceBody(completion[idx+3:])
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		a.logger.Debug().Err(err).Msg("JSON fallback parse failed")
		return
	}
	for _, field := range sig.Outputs {
		if _, done := result[field.Name]; done {
			continue
		}
		if value, present := parsed[field.Name]; present {
			result[field.Name] = a.coerce(value, field.Type)
		}
	}
}

func fenceBody(s string) string {
	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func splitAndTrim(s, sep string) []string {
	var items []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func stringsToAny(items []string) []any {
	result := make([]any, len(items))
	for i, item := range items {
		result[i] = item
	}
	return result
}
