package directive

import "strings"

type Mode string

const (
	ModePoseBased           Mode = "POSE_BASED"
	ModeModelReferenceBased Mode = "MODEL_REFERENCE_BASED"
)

// ParseMode never fails; unknown or empty values select POSE_BASED.
func ParseMode(value string) Mode {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	switch v {
	case string(ModeModelReferenceBased), "MODEL_REFERENCE":
		return ModeModelReferenceBased
	}
	return ModePoseBased
}

// RequiresSecondary reports whether the mode cannot run without a second image.
func (m Mode) RequiresSecondary() bool {
	return m == ModeModelReferenceBased
}

type Strictness string

const (
	StrictnessNormal Strictness = "NORMAL"
	StrictnessStrict Strictness = "STRICT"
)

func StrictnessFromBool(strict bool) Strictness {
	if strict {
		return StrictnessStrict
	}
	return StrictnessNormal
}

func (s Strictness) IsStrict() bool {
	return s == StrictnessStrict
}
