package handlers

import (
	"strings"

	"model-studio/internal/directive"
)

// Caption is a parsed photo caption or /set argument.
type Caption struct {
	// Updates maps raw keys to values; a key with no values unsets it.
	Updates directive.RawInput
	// Unknown holds lines that did not name a known key.
	Unknown []string
}

func (c Caption) Empty() bool {
	return len(c.Updates) == 0
}

var keyAliases = map[string]string{
	"model":      "modelType",
	"type":       "modelType",
	"expression": "modelExpression",
	"place":      "location",
	"background": "location",
	"jewellery":  "accessories",
	"jewelry":    "accessories",
	"design":     "otherOption",
	"change":     "otherOption",
	"details":    "otherDetails",
	"extra":      "otherDetails",
	"mode":       directive.KeyGenerationMode,
}

// canonicalKeys maps a squashed key (lowercase, no separators) to the raw key.
var canonicalKeys = func() map[string]string {
	out := make(map[string]string)
	for _, key := range directive.InputKeys() {
		out[squash(key)] = key
	}
	for alias, key := range keyAliases {
		out[alias] = key
		if spec, ok := directive.LookupField(key); ok && spec.NoteKey != "" {
			out[alias+"note"] = spec.NoteKey
		}
	}
	return out
}()

// ParseCaption reads "key: value" lines. Expression values may be
// comma-separated to select several.
func ParseCaption(text string) Caption {
	c := Caption{Updates: directive.RawInput{}}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, value, ok := splitLine(line)
		if !ok {
			c.Unknown = append(c.Unknown, line)
			continue
		}
		key, ok := canonicalKeys[squash(name)]
		if !ok {
			c.Unknown = append(c.Unknown, line)
			continue
		}

		c.Updates[key] = captionValues(key, value)
	}
	return c
}

func splitLine(line string) (string, string, bool) {
	i := strings.IndexAny(line, ":=")
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func captionValues(key, value string) []string {
	if value == "" {
		return nil
	}
	spec, ok := directive.LookupField(key)
	if !ok || !spec.Multi {
		return []string{value}
	}

	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func squash(key string) string {
	key = strings.ToLower(key)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
}

// FormatSelections renders selections one key per line in input order.
func FormatSelections(sel directive.RawInput) string {
	var b strings.Builder
	for _, key := range directive.InputKeys() {
		values := sel.Get(key)
		if len(values) == 0 {
			continue
		}
		b.WriteString(key + ": " + strings.Join(values, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
