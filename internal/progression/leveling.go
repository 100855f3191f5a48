package progression

import "math"

// XPForNextLevel returns the cumulative experience a user at the given
// level needs to advance to the next one: floor(100 * level^1.5).
// Experience is never reset on level-up; it is a running total compared
// against this threshold recomputed from the current level each time.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(100 * math.Pow(float64(level), 1.5))
}
