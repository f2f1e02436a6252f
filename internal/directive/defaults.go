package directive

// expressionFallback is used by the expression merge instead of the table entry.
const expressionFallback = "natural expression, age 20–40"

var defaultPhrases = map[Field]string{
	FieldModelType:       "Indian woman, medium height, average build, realistic proportions",
	FieldModelExpression: "natural relaxed expression, age 20–40",
	FieldHair:            "classic Indian hairstyle, neat bun or braid",
	FieldPose:            "full body front pose, standing naturally, weight balanced",
	FieldLocation:        "modern living room interior, home environment",
	FieldAccessories:     "light traditional jewellery only",
	FieldOtherOption:     "match saree design, border, motifs, and colours exactly from primary reference image",
}

// DefaultPhrase returns the fallback phrase for an unset field, or "" when the
// field has none.
func DefaultPhrase(field Field) string {
	return defaultPhrases[field]
}
