package studio

import "errors"

var (
	ErrMissingPrimaryImage   = errors.New("reference image is required")
	ErrMissingSecondaryImage = errors.New("secondary reference image is required for MODEL_REFERENCE_BASED mode")
	ErrGenerationFailed      = errors.New("no image returned from the generation service")
)

const genericMessage = "Something went wrong."

// UserMessage maps an error to the text shown to end users. Unknown errors
// get a generic message; details stay in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingPrimaryImage):
		return "Reference image is required."
	case errors.Is(err, ErrMissingSecondaryImage):
		return "Secondary reference image is required for MODEL_REFERENCE_BASED mode."
	case errors.Is(err, ErrGenerationFailed):
		return "No image returned from the generation service."
	}
	return genericMessage
}

// IsValidation reports whether err was caused by the caller's input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingPrimaryImage) || errors.Is(err, ErrMissingSecondaryImage)
}
