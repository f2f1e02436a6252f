package directive

// Result is a compiled directive plus the metadata reported to callers.
type Result struct {
	Document      Document
	Attributes    Attributes
	Phrases       Phrases
	Flags         Flags
	ChangedFields []Field
	Mode          Mode
	Strictness    Strictness
}

func (r Result) Prompt() string {
	return r.Document.String()
}

func (r Result) ChangedFieldNames() []string {
	out := make([]string, 0, len(r.ChangedFields))
	for _, f := range r.ChangedFields {
		out = append(out, string(f))
	}
	return out
}

// Compile runs normalize, classify and assemble for one request.
func (a *Assembler) Compile(raw RawInput, mode Mode, hasSecondary bool) Result {
	if mode != ModeModelReferenceBased {
		mode = ModePoseBased
	}
	attrs := Normalize(raw)
	phrases := attrs.Phrases()
	flags := Classify(phrases)
	changed := attrs.ChangedFields()

	doc := a.Assemble(Input{
		Phrases:      phrases,
		Flags:        flags,
		Mode:         mode,
		HasSecondary: hasSecondary,
		Changed:      changed,
	})

	return Result{
		Document:      doc,
		Attributes:    attrs,
		Phrases:       phrases,
		Flags:         flags,
		ChangedFields: changed,
		Mode:          mode,
		Strictness:    a.strictness,
	}
}
