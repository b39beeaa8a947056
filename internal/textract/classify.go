package textract

import (
	"regexp"
	"strconv"
	"strings"
)

// TextType is the semantic category of a text fragment.
type TextType string

const (
	ElementLabel  TextType = "element_label"
	Dimension     TextType = "dimension"
	Material      TextType = "material"
	Specification TextType = "specification"
	RoomName      TextType = "room_name"
	General       TextType = "general"
)

// The classifier is an ordered rule table: the first rule whose matcher
// accepts the uppercased text wins. Element labels are checked before
// dimensions so "WALL 1" classifies as a label, not a number.
type textRule struct {
	match func(upper string) bool
	kind  TextType
}

var (
	elementKeywords = []string{
		"WALL", "DOOR", "WINDOW", "COLUMN", "BEAM", "SLAB", "FOUNDATION",
		"DUCT", "PIPE", "PANEL", "SWITCH", "OUTLET", "VALVE", "PUMP",
	}
	roomKeywords = []string{
		"BEDROOM", "KITCHEN", "BATHROOM", "LIVING", "DINING", "OFFICE",
		"STORAGE", "UTILITY", "GARAGE", "LOBBY", "CORRIDOR",
	}
	materialKeywords = []string{
		"CONCRETE", "STEEL", "TIMBER", "BRICK", "GLASS", "ALUMINIUM",
		"PLASTIC", "CERAMIC", "INSULATION", "WATERPROOF",
	}
	specKeywords = []string{
		"FIRE RATED", "INSULATED", "ACOUSTIC", "THERMAL",
		"STRUCTURAL", "NON-LOAD", "REINFORCED", "PRECAST",
	}

	// Anchored at the start: "3000MM" and "2.4 M" are dimensions, "A1"
	// is not.
	dimensionPattern = regexp.MustCompile(`^\d+\.?\d*\s*(MM|CM|M|FT|IN)?\b`)

	numberPattern  = regexp.MustCompile(`\d+\.?\d*`)
	keywordPattern = regexp.MustCompile(`[A-Z]{2,}`)
	unitPattern    = regexp.MustCompile(`^(\d+\.?\d*)\s*(MM|CM|M|FT|IN)?`)
)

var textRules = []textRule{
	{containsAny(elementKeywords), ElementLabel},
	{dimensionPattern.MatchString, Dimension},
	{containsAny(roomKeywords), RoomName},
	{containsAny(materialKeywords), Material},
	{containsAny(specKeywords), Specification},
}

// ClassifyText labels a raw string with its semantic category. Unmatched
// text is General.
func ClassifyText(text string) TextType {
	upper := strings.ToUpper(strings.TrimSpace(text))
	for _, r := range textRules {
		if r.match(upper) {
			return r.kind
		}
	}
	return General
}

// ParseProperties extracts the numeric value and unit of dimension-like
// text (unit defaults to MM) plus the generic number and keyword token
// lists used by later heuristics.
func ParseProperties(text string) Properties {
	upper := strings.ToUpper(strings.TrimSpace(text))
	var p Properties

	if m := unitPattern.FindStringSubmatch(upper); m != nil && m[1] != "" {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.HasDimension = true
			p.Value = v
			p.Unit = m[2]
			if p.Unit == "" {
				p.Unit = "MM"
			}
		}
	}

	for _, n := range numberPattern.FindAllString(upper, -1) {
		if v, err := strconv.ParseFloat(n, 64); err == nil {
			p.Numbers = append(p.Numbers, v)
		}
	}
	p.Keywords = keywordPattern.FindAllString(upper, -1)
	return p
}

func containsAny(keywords []string) func(string) bool {
	return func(upper string) bool {
		for _, kw := range keywords {
			if strings.Contains(upper, kw) {
				return true
			}
		}
		return false
	}
}
