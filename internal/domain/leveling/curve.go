// Package leveling maps experience points to levels and computes the XP a
// completed study block is worth.
package leveling

import "math"

// MaxLevel bounds LevelForXP so the upward scan always terminates.
const MaxLevel = 1000

// Curve describes a progression curve of the form
//
//	xpForLevel(L) = round(Base * ((L-1) * Step) ^ Exponent)
//
// with level 1 fixed at 0 XP.
type Curve struct {
	Base     float64
	Step     float64
	Exponent float64
}

var (
	// SubjectCurve is used for per-subject levels.
	SubjectCurve = Curve{Base: 100, Step: 1.5, Exponent: 1.2}

	// GlobalCurve is used for a user's global level.
	GlobalCurve = Curve{Base: 200, Step: 1.8, Exponent: 1.3}
)

// XPForLevel returns the minimum XP required to reach the given level.
// Levels below 2 require no XP.
func (c Curve) XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Round(c.Base * math.Pow(float64(level-1)*c.Step, c.Exponent)))
}

// LevelForXP returns the greatest level L such that xp >= XPForLevel(L).
// Negative XP is treated as 0. The result never exceeds MaxLevel.
func (c Curve) LevelForXP(xp int) int {
	level := 1
	for level < MaxLevel && xp >= c.XPForLevel(level+1) {
		level++
	}
	return level
}

// Progress reports how far xp has advanced from the start of level towards
// the next level, clamped to [0,1].
func (c Curve) Progress(xp, level int) float64 {
	floor := c.XPForLevel(level)
	span := c.XPForLevel(level+1) - floor
	if span <= 0 {
		return 1.0
	}

	p := float64(xp-floor) / float64(span)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
