package gesture

import "strings"

// Category identifies the control action a recognized gesture maps to.
type Category int

const (
	Unknown Category = iota
	Jump
	Slide
	LaneLeft
	LaneRight
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case Jump:
		return "jump"
	case Slide:
		return "slide"
	case LaneLeft:
		return "lane_left"
	case LaneRight:
		return "lane_right"
	default:
		return "unknown"
	}
}

// aliases maps the gesture names the detector may emit to a category.
// Lookup is case-insensitive; anything not listed is Unknown.
var aliases = map[string]Category{
	"jump": Jump,
	"up":   Jump,

	"slide":  Slide,
	"down":   Slide,
	"duck":   Slide,
	"crouch": Slide,

	"left":       LaneLeft,
	"move_left":  LaneLeft,
	"lane_left":  LaneLeft,
	"shift_left": LaneLeft,

	"right":       LaneRight,
	"move_right":  LaneRight,
	"lane_right":  LaneRight,
	"shift_right": LaneRight,
}

// ParseCategory resolves a wire-level gesture name to a Category.
func ParseCategory(name string) Category {
	if c, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return Unknown
}

// Event is a single classified gesture as delivered by the detector.
// Immutable once constructed.
type Event struct {
	Category   Category
	Confidence float64 // clamped to [0,1] at decode time
	SourceTime float64 // detector-side epoch seconds
}

// Clamp01 bounds a confidence or threshold value to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
