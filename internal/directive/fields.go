package directive

type Field string

const (
	FieldModelType       Field = "modelType"
	FieldModelExpression Field = "modelExpression"
	FieldHair            Field = "hair"
	FieldPose            Field = "pose"
	FieldLocation        Field = "location"
	FieldAccessories     Field = "accessories"
	FieldOtherOption     Field = "otherOption"
	FieldOtherDetails    Field = "otherDetails"
)

// FieldSpec describes where a canonical field comes from in the raw input.
type FieldSpec struct {
	Field   Field
	Key     string
	NoteKey string
	Multi   bool
	Label   string
}

// Order matters: changed fields are reported in this order.
var fieldSpecs = []FieldSpec{
	{Field: FieldModelType, Key: "modelType", NoteKey: "modelTypeNote", Label: "Model type"},
	{Field: FieldModelExpression, Key: "modelExpression", NoteKey: "modelExpressionNote", Multi: true, Label: "Expression"},
	{Field: FieldHair, Key: "hair", NoteKey: "hairNote", Label: "Hair"},
	{Field: FieldPose, Key: "pose", NoteKey: "poseNote", Label: "Pose"},
	{Field: FieldLocation, Key: "location", NoteKey: "locationNote", Label: "Location"},
	{Field: FieldAccessories, Key: "accessories", NoteKey: "accessoriesNote", Label: "Accessories"},
	{Field: FieldOtherOption, Key: "otherOption", NoteKey: "otherOptionNote", Label: "Design change"},
	{Field: FieldOtherDetails, Key: "otherDetails", Label: "Extra details"},
}

const (
	KeyGenerationMode = "generationMode"
)

func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs)
	return out
}

func LookupField(name string) (FieldSpec, bool) {
	for _, spec := range fieldSpecs {
		if string(spec.Field) == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// InputKeys lists every raw key the normalizer reads, notes included.
func InputKeys() []string {
	keys := make([]string, 0, len(fieldSpecs)*2+1)
	for _, spec := range fieldSpecs {
		keys = append(keys, spec.Key)
		if spec.NoteKey != "" {
			keys = append(keys, spec.NoteKey)
		}
	}
	return append(keys, KeyGenerationMode)
}
