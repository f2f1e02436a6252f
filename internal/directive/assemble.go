package directive

import "strings"

type SectionText struct {
	Name string
	Text string
}

// Document is the ordered directive handed to the image model.
type Document struct {
	Sections []SectionText
}

func (d Document) String() string {
	texts := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n")
}

func (d Document) Names() []string {
	names := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.Name)
	}
	return names
}

func (d Document) Has(name string) bool {
	for _, s := range d.Sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

type Options struct {
	Strictness Strictness
	// Sections overrides the built-in library; tests use it.
	Sections []Section
}

// Assembler is safe for concurrent use: it holds only read-only state.
type Assembler struct {
	strictness Strictness
	sections   []Section
}

func NewAssembler(opts Options) *Assembler {
	strictness := opts.Strictness
	if strictness != StrictnessStrict {
		strictness = StrictnessNormal
	}
	sections := opts.Sections
	if len(sections) == 0 {
		sections = library
	}
	return &Assembler{
		strictness: strictness,
		sections:   sections,
	}
}

func (a *Assembler) Strictness() Strictness {
	return a.strictness
}

type Input struct {
	Phrases      Phrases
	Flags        Flags
	Mode         Mode
	HasSecondary bool
	Changed      []Field
}

func (a *Assembler) Assemble(in Input) Document {
	mode := in.Mode
	if mode != ModeModelReferenceBased {
		mode = ModePoseBased
	}
	ctx := Context{
		Phrases:      in.Phrases,
		Flags:        in.Flags,
		Mode:         mode,
		Strictness:   a.strictness,
		HasSecondary: in.HasSecondary,
		Changed:      in.Changed,
	}

	doc := Document{Sections: make([]SectionText, 0, len(a.sections))}
	for _, s := range a.sections {
		if s.Include != nil && !s.Include(ctx) {
			continue
		}
		doc.Sections = append(doc.Sections, SectionText{Name: s.Name, Text: s.Render(ctx)})
	}
	return doc
}
