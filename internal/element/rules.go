package element

// Rule classifies one contour bounding box. Match receives the box aspect
// ratio (width/height) and area in square pixels; Derive maps the box
// dimensions to named geometric properties for the matched type.
type Rule struct {
	Name           string
	Type           Type
	BaseConfidence float64
	Match          func(aspect float64, area int) bool
	Derive         func(w, h, area int) map[string]float64
}

// disciplineRules returns the ordered rule table for a discipline. Order is
// priority: the first matching rule wins, so the geometrically distinctive
// shapes (beam, column) are listed before generic fallbacks.
func disciplineRules(d Discipline) []Rule {
	switch d {
	case Structural:
		return structuralRules
	case Civil:
		return civilRules
	case Services:
		return servicesRules
	default:
		return architecturalRules
	}
}

var architecturalRules = []Rule{
	{
		Name:           "arch_wall",
		Type:           Wall,
		BaseConfidence: 0.85,
		Match: func(aspect float64, area int) bool {
			return (aspect > 3 || (aspect > 0 && aspect < 0.33)) && area > 1000
		},
		Derive: func(w, h, area int) map[string]float64 {
			return map[string]float64{
				"length":    float64(maxInt(w, h)),
				"thickness": float64(minInt(w, h)),
				"area":      float64(area),
			}
		},
	},
	{
		Name:           "arch_door",
		Type:           Door,
		BaseConfidence: 0.80,
		Match: func(aspect float64, area int) bool {
			return aspect > 0.3 && aspect < 0.8 && area > 500 && area < 5000
		},
		Derive: widthHeightArea,
	},
	{
		Name:           "arch_window",
		Type:           Window,
		BaseConfidence: 0.75,
		Match: func(aspect float64, area int) bool {
			return aspect > 0.5 && aspect < 2.0 && area > 100 && area < 2000
		},
		Derive: widthHeightArea,
	},
}

var structuralRules = []Rule{
	{
		Name:           "struct_beam",
		Type:           Beam,
		BaseConfidence: 0.90,
		Match: func(aspect float64, area int) bool {
			return aspect > 4 && area > 2000
		},
		Derive: func(w, h, area int) map[string]float64 {
			return map[string]float64{
				"length": float64(w),
				"depth":  float64(h),
				"area":   float64(area),
			}
		},
	},
	{
		Name:           "struct_column",
		Type:           Column,
		BaseConfidence: 0.85,
		Match: func(aspect float64, area int) bool {
			return aspect > 0 && aspect < 0.5 && area > 1000
		},
		Derive: widthHeightArea,
	},
	{
		Name:           "struct_foundation",
		Type:           Foundation,
		BaseConfidence: 0.75,
		Match: func(aspect float64, area int) bool {
			return area > 5000
		},
		Derive: widthHeightArea,
	},
}

var civilRules = []Rule{
	{
		Name:           "civil_road",
		Type:           Road,
		BaseConfidence: 0.85,
		Match: func(aspect float64, area int) bool {
			return aspect > 3 && area > 3000
		},
		Derive: func(w, h, area int) map[string]float64 {
			return map[string]float64{
				"length": float64(w),
				"width":  float64(h),
				"area":   float64(area),
			}
		},
	},
	{
		Name:           "civil_utility",
		Type:           Utility,
		BaseConfidence: 0.70,
		Match: func(aspect float64, area int) bool {
			return area > 100 && area < 2000
		},
		Derive: widthHeightArea,
	},
}

var servicesRules = []Rule{
	{
		Name:           "services_duct",
		Type:           Duct,
		BaseConfidence: 0.80,
		Match: func(aspect float64, area int) bool {
			return aspect > 0.5 && aspect < 3.0 && area > 1000 && area < 8000
		},
		Derive: widthHeightArea,
	},
	{
		Name:           "services_panel",
		Type:           Panel,
		BaseConfidence: 0.75,
		Match: func(aspect float64, area int) bool {
			return area > 100 && area < 2000
		},
		Derive: widthHeightArea,
	},
}

// genericRule catches contours no discipline rule claimed. Only boxes above
// a floor area are kept so edge noise never becomes an element.
var genericRule = Rule{
	Name:           "generic_element",
	Type:           Generic,
	BaseConfidence: 0.60,
	Match: func(aspect float64, area int) bool {
		return area > 500
	},
	Derive: widthHeightArea,
}

func widthHeightArea(w, h, area int) map[string]float64 {
	return map[string]float64{
		"width":  float64(w),
		"height": float64(h),
		"area":   float64(area),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
