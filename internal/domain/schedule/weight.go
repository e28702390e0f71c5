// Package schedule turns a user's subjects into a dated, capacity-exact list
// of study blocks.
package schedule

// DefaultWeight is returned for confidence values outside [1,10].
const DefaultWeight = 1.0

// weights maps confidence to study priority. Lower confidence means the
// subject is scheduled more often.
var weights = map[int]float64{
	1:  5.0,
	2:  4.0,
	3:  3.0,
	4:  2.5,
	5:  2.0,
	6:  1.5,
	7:  1.0,
	8:  0.7,
	9:  0.5,
	10: 0.3,
}

// Weight returns the scheduling weight for a confidence rating.
func Weight(confidence int) float64 {
	if w, ok := weights[confidence]; ok {
		return w
	}
	return DefaultWeight
}
