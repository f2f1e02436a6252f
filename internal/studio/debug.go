package studio

import "model-studio/internal/directive"

// Debug is the diagnostic block returned next to a directive.
type Debug struct {
	Strictness          directive.Strictness `json:"strictness" yaml:"strictness"`
	GenerationMode      directive.Mode       `json:"generationMode" yaml:"generationMode"`
	ClassificationFlags directive.Flags      `json:"classificationFlags" yaml:"classificationFlags"`
	ChangedFields       []string             `json:"changedFields" yaml:"changedFields"`
	Sections            []string             `json:"sections" yaml:"sections"`
}

func NewDebug(res directive.Result) Debug {
	return Debug{
		Strictness:          res.Strictness,
		GenerationMode:      res.Mode,
		ClassificationFlags: res.Flags,
		ChangedFields:       res.ChangedFieldNames(),
		Sections:            res.Document.Names(),
	}
}
