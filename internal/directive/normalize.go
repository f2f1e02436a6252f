package directive

import "strings"

// Attribute is the (value, note) pair for one canonical field. Values holds
// one element for a scalar selection and two or more for a multi-select.
type Attribute struct {
	Values []string
	Note   string
}

func (a *Attribute) HasValue() bool {
	return a != nil && len(a.Values) > 0
}

func (a *Attribute) HasNote() bool {
	return a != nil && a.Note != ""
}

func (a *Attribute) isArray() bool {
	return a != nil && len(a.Values) > 1
}

// Attributes maps every canonical field to its pair; a nil entry means unset.
type Attributes map[Field]*Attribute

func (a Attributes) Get(field Field) *Attribute {
	if a == nil {
		return nil
	}
	return a[field]
}

// ChangedFields lists the fields whose value (not note) was supplied, in
// canonical order.
func (a Attributes) ChangedFields() []Field {
	out := make([]Field, 0, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		if a.Get(spec.Field).HasValue() {
			out = append(out, spec.Field)
		}
	}
	return out
}

func present(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Normalize converts raw input into canonical attributes. It never fails:
// anything absent or blank becomes nil.
func Normalize(raw RawInput) Attributes {
	attrs := make(Attributes, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		values := presentValues(raw.Get(spec.Key), spec.Multi)
		var note string
		if spec.NoteKey != "" {
			if n := raw.First(spec.NoteKey); present(n) {
				note = n
			}
		}
		if len(values) == 0 && note == "" {
			attrs[spec.Field] = nil
			continue
		}
		attrs[spec.Field] = &Attribute{Values: values, Note: note}
	}
	return attrs
}

func presentValues(values []string, multi bool) []string {
	switch {
	case len(values) == 0:
		return nil
	case len(values) == 1:
		if !present(values[0]) {
			return nil
		}
		return []string{values[0]}
	case multi:
		return append([]string(nil), values...)
	}

	// A repeated scalar key is joined first and then judged as one value.
	if !present(strings.Join(values, "")) {
		return nil
	}
	return append([]string(nil), values...)
}

// Phrases holds the final per-field text used in the document.
type Phrases struct {
	ModelType       string
	ModelExpression string
	Hair            string
	Pose            string
	Location        string
	Accessories     string
	OtherOption     string
	OtherDetails    string

	PoseNote     string
	LocationNote string
	PoseSupplied bool
}

func (a Attributes) Phrases() Phrases {
	pose := a.Get(FieldPose)
	location := a.Get(FieldLocation)

	p := Phrases{
		ModelType:       mergeChoice(a.Get(FieldModelType), DefaultPhrase(FieldModelType)),
		ModelExpression: mergeExpression(a.Get(FieldModelExpression)),
		Hair:            mergeChoice(a.Get(FieldHair), DefaultPhrase(FieldHair)),
		Pose:            mergeChoice(pose, DefaultPhrase(FieldPose)),
		Location:        mergeChoice(location, DefaultPhrase(FieldLocation)),
		Accessories:     mergeChoice(a.Get(FieldAccessories), DefaultPhrase(FieldAccessories)),
		OtherOption:     mergeChoice(a.Get(FieldOtherOption), DefaultPhrase(FieldOtherOption)),
		PoseSupplied:    pose != nil,
	}
	if details := a.Get(FieldOtherDetails); details.HasValue() {
		p.OtherDetails = strings.Join(details.Values, ", ")
	}
	if pose != nil {
		p.PoseNote = pose.Note
	}
	if location != nil {
		p.LocationNote = location.Note
	}
	return p
}

func (p Phrases) Get(field Field) string {
	switch field {
	case FieldModelType:
		return p.ModelType
	case FieldModelExpression:
		return p.ModelExpression
	case FieldHair:
		return p.Hair
	case FieldPose:
		return p.Pose
	case FieldLocation:
		return p.Location
	case FieldAccessories:
		return p.Accessories
	case FieldOtherOption:
		return p.OtherOption
	case FieldOtherDetails:
		return p.OtherDetails
	}
	return ""
}

func mergeChoice(attr *Attribute, fallback string) string {
	switch {
	case attr.isArray():
		out := strings.Join(attr.Values, ", ")
		if attr.HasNote() {
			out += ". Extra note: " + attr.Note
		}
		return out
	case attr.HasValue() && attr.HasNote():
		return attr.Values[0] + ". Extra note: " + attr.Note
	case attr.HasValue():
		return attr.Values[0]
	case attr.HasNote():
		return attr.Note
	}
	return fallback
}

func mergeExpression(attr *Attribute) string {
	var parts []string
	if attr.HasValue() {
		parts = append(parts, strings.Join(attr.Values, ", "))
	}
	if attr.HasNote() {
		parts = append(parts, attr.Note)
	}
	if len(parts) == 0 {
		return expressionFallback
	}
	return strings.Join(parts, " and ")
}
