package netutil

import "time"

// SanitizeTimeout returns fallback for negative d and raises d to min when
// min is positive. Zero d is raised to min as well.
func SanitizeTimeout(d, min, fallback time.Duration) time.Duration {
	if d < 0 {
		return fallback
	}
	if min > 0 && d < min {
		return min
	}
	return d
}

// ClampTimeout is SanitizeTimeout with an upper bound; max <= 0 disables it.
func ClampTimeout(d, min, max, fallback time.Duration) time.Duration {
	d = SanitizeTimeout(d, min, fallback)
	if max > 0 && d > max {
		return max
	}
	return d
}
