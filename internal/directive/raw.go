package directive

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RawInput is the loosely typed request: key -> zero, one or many values.
// It has the same shape as url.Values so parsed forms can be passed directly.
type RawInput map[string][]string

func (r RawInput) Get(key string) []string {
	if r == nil {
		return nil
	}
	return r[key]
}

// First returns the first value for key, or "".
func (r RawInput) First(key string) string {
	values := r.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (r RawInput) Set(key string, values ...string) {
	if len(values) == 0 {
		delete(r, key)
		return
	}
	r[key] = append([]string(nil), values...)
}

// Clone returns a deep copy.
func (r RawInput) Clone() RawInput {
	out := make(RawInput, len(r))
	for k, v := range r {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RawValue decodes either a single string or a list of strings.
type RawValue []string

func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = nil
			return nil
		}
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = RawValue{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*v = RawValue(list)
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = RawValue{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*v = RawValue(list)
	return nil
}

// Selection is the file form of a request, used by the directive CLI.
type Selection struct {
	GenerationMode string `yaml:"generationMode,omitempty" json:"generationMode,omitempty"`

	ModelType       RawValue `yaml:"modelType,omitempty" json:"modelType,omitempty"`
	ModelExpression RawValue `yaml:"modelExpression,omitempty" json:"modelExpression,omitempty"`
	Hair            RawValue `yaml:"hair,omitempty" json:"hair,omitempty"`
	Pose            RawValue `yaml:"pose,omitempty" json:"pose,omitempty"`
	Location        RawValue `yaml:"location,omitempty" json:"location,omitempty"`
	Accessories     RawValue `yaml:"accessories,omitempty" json:"accessories,omitempty"`
	OtherOption     RawValue `yaml:"otherOption,omitempty" json:"otherOption,omitempty"`
	OtherDetails    RawValue `yaml:"otherDetails,omitempty" json:"otherDetails,omitempty"`

	ModelTypeNote       string `yaml:"modelTypeNote,omitempty" json:"modelTypeNote,omitempty"`
	ModelExpressionNote string `yaml:"modelExpressionNote,omitempty" json:"modelExpressionNote,omitempty"`
	HairNote            string `yaml:"hairNote,omitempty" json:"hairNote,omitempty"`
	PoseNote            string `yaml:"poseNote,omitempty" json:"poseNote,omitempty"`
	LocationNote        string `yaml:"locationNote,omitempty" json:"locationNote,omitempty"`
	AccessoriesNote     string `yaml:"accessoriesNote,omitempty" json:"accessoriesNote,omitempty"`
	OtherOptionNote     string `yaml:"otherOptionNote,omitempty" json:"otherOptionNote,omitempty"`
}

func (s Selection) Raw() RawInput {
	raw := RawInput{}
	put := func(key string, values []string) {
		if len(values) > 0 {
			raw.Set(key, values...)
		}
	}
	putNote := func(key, note string) {
		if note != "" {
			raw.Set(key, note)
		}
	}

	put("modelType", s.ModelType)
	put("modelExpression", s.ModelExpression)
	put("hair", s.Hair)
	put("pose", s.Pose)
	put("location", s.Location)
	put("accessories", s.Accessories)
	put("otherOption", s.OtherOption)
	put("otherDetails", s.OtherDetails)

	putNote("modelTypeNote", s.ModelTypeNote)
	putNote("modelExpressionNote", s.ModelExpressionNote)
	putNote("hairNote", s.HairNote)
	putNote("poseNote", s.PoseNote)
	putNote("locationNote", s.LocationNote)
	putNote("accessoriesNote", s.AccessoriesNote)
	putNote("otherOptionNote", s.OtherOptionNote)

	if s.GenerationMode != "" {
		raw.Set(KeyGenerationMode, s.GenerationMode)
	}
	return raw
}

// ParseSelectionYAML decodes a selection file.
func ParseSelectionYAML(data []byte) (Selection, error) {
	var s Selection
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Selection{}, fmt.Errorf("decode selection: %w", err)
	}
	return s, nil
}
