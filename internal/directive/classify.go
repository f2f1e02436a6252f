package directive

import "strings"

// Keyword sets are matched as lower-case substrings. Matching is a heuristic:
// "tea" also matches "steady", and that is accepted.
var (
	ZoomKeywords            = []string{"zoom", "close up", "close-up", "head to knees", "closeup"}
	MirrorKeywords          = []string{"mirror"}
	KitchenLaptopKeywords   = []string{"laptop", "working on laptop"}
	KitchenCookingKeywords  = []string{"kitchen cooking", "chopping", "cutting vegetables"}
	KitchenCoffeeKeywords   = []string{"coffee", "tea", "holding cup", "kitchen coffee"}
	BlurKeywords            = []string{"blur"}
	LivingRoomKeywords      = []string{"living room", "home"}
	IndoorNoCeilingKeywords = append(append([]string(nil), LivingRoomKeywords...), "office")
)

type Flags struct {
	Zoom              bool `json:"isZoom" yaml:"isZoom"`
	MirrorPose        bool `json:"isMirrorPose" yaml:"isMirrorPose"`
	KitchenLaptop     bool `json:"isKitchenLaptop" yaml:"isKitchenLaptop"`
	KitchenCooking    bool `json:"isKitchenCooking" yaml:"isKitchenCooking"`
	KitchenCoffee     bool `json:"isKitchenCoffee" yaml:"isKitchenCoffee"`
	BlurredBackground bool `json:"isBlurredBackground" yaml:"isBlurredBackground"`
	LivingRoom        bool `json:"isLivingRoom" yaml:"isLivingRoom"`
	IndoorNoCeiling   bool `json:"indoorNoCeiling" yaml:"indoorNoCeiling"`
}

// Classify derives scenario flags from the merged pose and location text.
// Pose-driven flags read the pose text, scene flags read the location text.
func Classify(p Phrases) Flags {
	poseText := searchText(p.Pose, p.PoseNote)
	locationText := searchText(p.Location, p.LocationNote)

	return Flags{
		Zoom:              containsAny(poseText, ZoomKeywords),
		MirrorPose:        containsAny(poseText, MirrorKeywords),
		KitchenLaptop:     containsAny(poseText, KitchenLaptopKeywords),
		KitchenCooking:    containsAny(poseText, KitchenCookingKeywords),
		KitchenCoffee:     containsAny(poseText, KitchenCoffeeKeywords),
		BlurredBackground: containsAny(locationText, BlurKeywords),
		LivingRoom:        containsAny(locationText, LivingRoomKeywords),
		IndoorNoCeiling:   containsAny(locationText, IndoorNoCeilingKeywords),
	}
}

func searchText(phrase, note string) string {
	return strings.ToLower(phrase + " " + note)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
