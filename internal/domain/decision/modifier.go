package decision

// Segment band lower bounds; a boundary value belongs to the higher band.
const (
	segment1Floor = 2500
	segment2Floor = 5000
	segment3Floor = 7500
)

// CreditModifier maps a segment value to its credit modifier. Debtors
// (below segment1Floor) get 0.
func (p Policy) CreditModifier(segment int) int {
	switch {
	case segment < segment1Floor:
		return 0
	case segment < segment2Floor:
		return p.Segment1Modifier
	case segment < segment3Floor:
		return p.Segment2Modifier
	default:
		return p.Segment3Modifier
	}
}
