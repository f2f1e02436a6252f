package directive

import "strings"

// Context is everything a section may depend on.
type Context struct {
	Phrases      Phrases
	Flags        Flags
	Mode         Mode
	Strictness   Strictness
	HasSecondary bool
	Changed      []Field
}

// Section is one named block of the directive. Include nil means always.
type Section struct {
	Name    string
	Include func(Context) bool
	Render  func(Context) string
}

const (
	SectionStrictMode         = "STRICT_MODE"
	SectionPoseLock           = "POSE_LOCK"
	SectionRole               = "ROLE"
	SectionHardRules          = "HARD_RULES"
	SectionModelDescription   = "MODEL_DESCRIPTION"
	SectionCameraAndLens      = "CAMERA_AND_LENS_REALISM"
	SectionPoseAndFraming     = "POSE_AND_FRAMING"
	SectionMirrorLock         = "MIRROR_ADJUSTMENT_LOCK"
	SectionKitchenLaptop      = "KITCHEN_LAPTOP_FRAMING"
	SectionKitchenCooking     = "KITCHEN_COOKING_FRAMING"
	SectionKitchenCoffee      = "KITCHEN_COFFEE_FRAMING"
	SectionAntiWideShot       = "ANTI_WIDE_SHOT_FAILSAFE"
	SectionScene              = "SCENE_INTEGRATION_AND_BACKGROUND"
	SectionAccessories        = "ACCESSORIES"
	SectionDesignChange       = "DESIGN_CHANGE"
	SectionSecondaryImage     = "SECONDARY_IMAGE_USAGE"
	SectionQuality            = "QUALITY_AND_REALISM"
	SectionModelReferenceLock = "MODEL_REFERENCE_LOCK"
	SectionNoCeiling          = "NO_CEILING_ENFORCEMENT"
)

// library is kept in canonical order; the assembler never reorders it.
var library = []Section{
	{
		Name:    SectionStrictMode,
		Include: func(c Context) bool { return c.Strictness.IsStrict() },
		Render: func(Context) string {
			return block(SectionStrictMode, "!!! STRICT MODE ENABLED. FOLLOW ALL RULES EXACTLY.")
		},
	},
	{
		Name:    SectionPoseLock,
		Include: func(c Context) bool { return c.Phrases.PoseSupplied && present(c.Phrases.Pose) },
		Render: func(c Context) string {
			return block(SectionPoseLock,
				"!!! POSE LOCK: reproduce this pose exactly: "+c.Phrases.Pose,
				"Do not substitute a different pose, body angle, or orientation.",
			)
		},
	},
	{
		Name: SectionRole,
		Render: func(Context) string {
			return block(SectionRole,
				"You are a world-class commercial lifestyle photographer. Create ONE completely photorealistic photograph. The final image must look like a real indoor photograph, never a studio cutout.",
			)
		},
	},
	{
		Name:   SectionHardRules,
		Render: renderHardRules,
	},
	{
		Name: SectionModelDescription,
		Render: func(c Context) string {
			return block(SectionModelDescription,
				"Model type: "+c.Phrases.ModelType,
				"Expression: "+c.Phrases.ModelExpression,
				"Hair: "+c.Phrases.Hair,
			)
		},
	},
	{
		Name: SectionCameraAndLens,
		Render: func(Context) string {
			return block(SectionCameraAndLens,
				"- Camera height: 130–145 cm from floor (natural indoor photography)",
				"- Lens: 35–50mm full-frame equivalent",
				"- Perspective must align with sofa height, window lines, and ceiling lines",
				"- Model must NOT appear closer to the camera than nearby furniture",
			)
		},
	},
	{
		Name:   SectionPoseAndFraming,
		Render: renderPoseAndFraming,
	},
	{
		Name:    SectionMirrorLock,
		Include: func(c Context) bool { return c.Flags.MirrorPose },
		Render: func(Context) string {
			return block(SectionMirrorLock,
				"- Model stands facing a mirror, adjusting the saree pallu or jewellery",
				"- Framing: waist-up, camera slightly behind and to the side of the model",
				"- Reflection shows the same saree design, colours, and pose, mirrored correctly",
				"- No camera, phone, or photographer visible in the reflection",
				"- Reflection geometry follows the mirror plane; no duplicated or missing limbs",
			)
		},
	},
	{
		Name:    SectionKitchenLaptop,
		Include: func(c Context) bool { return c.Flags.KitchenLaptop },
		Render: func(Context) string {
			return block(SectionKitchenLaptop,
				"- Model in a home kitchen, working on a laptop placed on the counter",
				"- Framing: mid-shot to below waist; the counter must not hide the saree pleats",
				"- Laptop screen shows no readable text or logos",
				"- Natural posture, hands on the keyboard, relaxed shoulders",
			)
		},
	},
	{
		Name:    SectionKitchenCooking,
		Include: func(c Context) bool { return c.Flags.KitchenCooking },
		Render: func(Context) string {
			return block(SectionKitchenCooking,
				"- Model cooking at the kitchen counter, chopping or cutting vegetables",
				"- Framing: mid-shot to below waist, pallu kept clear of the stove and knife",
				"- Ingredients, utensils, and cutting board at realistic scale",
				"- Hand and knife anatomy correct; no extra fingers",
			)
		},
	},
	{
		Name:    SectionKitchenCoffee,
		Include: func(c Context) bool { return c.Flags.KitchenCoffee },
		Render: func(Context) string {
			return block(SectionKitchenCoffee,
				"- Model holding a cup of coffee or tea in the kitchen",
				"- Framing: waist-up to mid-thigh, cup held naturally at chest height",
				"- Cup and steam look real; no floating objects",
				"- Saree drape stays visible around the hand holding the cup",
			)
		},
	},
	{
		Name: SectionAntiWideShot,
		Render: func(Context) string {
			return block(SectionAntiWideShot,
				"- Do NOT render an ultra-wide or distant shot where the model is small in the frame",
				"- Model occupies at least 60% of the frame height",
				"- No fisheye or wide-angle stretching at the frame edges",
			)
		},
	},
	{
		Name:   SectionScene,
		Render: renderScene,
	},
	{
		Name: SectionAccessories,
		Render: func(c Context) string {
			return block(SectionAccessories,
				c.Phrases.Accessories,
				"Do not block saree details",
			)
		},
	},
	{
		Name: SectionDesignChange,
		Render: func(c Context) string {
			return block(SectionDesignChange,
				c.Phrases.OtherOption,
				"Extra details: "+c.Phrases.OtherDetails,
			)
		},
	},
	{
		Name:    SectionSecondaryImage,
		Include: func(c Context) bool { return c.HasSecondary && c.Mode == ModePoseBased },
		Render: func(Context) string {
			return block(SectionSecondaryImage,
				"Use second image ONLY for reverse/back saree details",
			)
		},
	},
	{
		Name: SectionQuality,
		Render: func(Context) string {
			return block(SectionQuality,
				"- Must look like a real lifestyle photograph",
				"- No cutout edges, halos, or studio lighting",
				"- Correct proportions and natural skin texture",
				"- No text, logos, or artifacts",
			)
		},
	},
	{
		Name:    SectionModelReferenceLock,
		Include: func(c Context) bool { return c.Mode == ModeModelReferenceBased },
		Render: func(Context) string {
			return block(SectionModelReferenceLock,
				"- SECOND image is the MASTER reference: copy its pose, body orientation, camera angle, lens perspective, framing, and background exactly",
				"- FIRST image is used ONLY for the garment design: pattern, border, motifs, embroidery, and colours",
				"- Do NOT copy the model, pose, or background from the FIRST image",
				"- Do NOT copy the garment design from the SECOND image",
				"- Dress the model of the SECOND image in the saree of the FIRST image",
			)
		},
	},
	{
		Name:    SectionNoCeiling,
		Include: func(c Context) bool { return c.Flags.IndoorNoCeiling },
		Render: func(Context) string {
			return block(SectionNoCeiling,
				"- Do NOT show the ceiling anywhere in the frame",
				"- Top of the frame ends at wall level: walls, windows, curtains, or wall art",
				"- Keep the camera level at chest height; no upward tilt",
				"- No ceiling lights, fans, or ceiling edges visible",
			)
		},
	},
}

// Library returns the section catalog in canonical order.
func Library() []Section {
	out := make([]Section, len(library))
	copy(out, library)
	return out
}

func renderHardRules(c Context) string {
	var rules []string
	if c.Mode == ModeModelReferenceBased {
		rules = append(rules,
			"FIRST image is the saree DESIGN reference ONLY. Copy design, border, embroidery, motifs, and colors exactly; ignore its pose, camera, and background.",
			"SECOND image is the MASTER reference for pose, camera angle, framing, and background.",
		)
	} else {
		rules = append(rules,
			"FIRST image is the MASTER FRONTAL saree reference. Copy design, border, embroidery, motifs, and colors exactly.",
			"SECOND image (if provided) is ONLY for back-side saree reference.",
		)
	}
	rules = append(rules,
		"Do NOT add text, logos, watermarks, or extra people.",
		"Do NOT distort anatomy or fabric geometry.",
		"Allowed changes: "+allowedChanges(c.Changed)+".",
	)
	if c.Strictness.IsStrict() {
		rules = append(rules,
			"STRICT MODE: DO NOT change saree pattern, colors, border, or motifs unless explicitly requested.",
			"STRICT MODE: Camera perspective, scale, and lighting must match the background exactly.",
		)
	}

	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, "- "+r)
	}
	return block(SectionHardRules, lines...)
}

func allowedChanges(changed []Field) string {
	if len(changed) == 0 {
		return "none"
	}
	names := make([]string, 0, len(changed))
	for _, f := range changed {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func renderPoseAndFraming(c Context) string {
	lines := []string{"Pose: " + c.Phrases.Pose}
	if c.Flags.Zoom {
		lines = append(lines,
			"Framing: ZOOM REQUESTED. Crop from head to knees, camera closer to the model; no full-body wide shot",
			"Keep face, blouse, and saree drape sharp and clearly visible",
		)
	} else {
		lines = append(lines,
			"Framing: full body unless zoom is explicitly requested",
			"Ensure saree pleats, pallu, and borders are clearly visible",
		)
	}
	return block(SectionPoseAndFraming, lines...)
}

func renderScene(c Context) string {
	lines := []string{"Location: " + c.Phrases.Location, ""}
	if c.Flags.BlurredBackground {
		lines = append(lines,
			"- Background photographed naturally, not artificial blur",
			"- Optical depth of field only (lens-based)",
			"- Background blur increases gradually with distance",
			"- Floor and model feet remain sharp",
		)
	} else {
		lines = append(lines,
			"- Background sharp and naturally lit, same exposure as the model",
			"- No artificial blur, bokeh, or depth-of-field effect on the background",
			"- Room details (furniture, walls, windows) stay crisp and in focus",
		)
	}
	lines = append(lines,
		"",
		"LIGHTING & REALISM:",
		"- Lighting must come ONLY from room sources (windows, lamps)",
		"- Warm indoor bounce from furniture and floor",
		"- Cooler daylight from windows affects highlights",
		"- Environmental color bleed on skin and saree",
		"",
		"GROUNDING:",
		"- Strong contact shadows beneath feet and saree hem",
		"- Ambient occlusion in pleats and fabric overlaps",
		"- No floating or visible gaps between feet and floor",
	)
	return block(SectionScene, lines...)
}

func block(name string, lines ...string) string {
	var b strings.Builder
	b.WriteString("[" + name + "]\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("[/" + name + "]")
	return b.String()
}
