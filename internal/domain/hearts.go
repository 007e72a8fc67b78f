package domain

// HP display bands on the 0-100 scale. The function is a monotone step:
// bands are contiguous and exhaustive, and out-of-range values clamp into
// the outer bands.
const (
	BandGreen  = 81
	BandYellow = 61
	BandOrange = 41
	BandRed    = 21
)

// HeartFor maps an HP value to its display heart.
func HeartFor(hp int) string {
	switch {
	case hp >= BandGreen:
		return "💚"
	case hp >= BandYellow:
		return "💛"
	case hp >= BandOrange:
		return "🧡"
	case hp >= BandRed:
		return "❤️"
	default:
		return "🖤"
	}
}
