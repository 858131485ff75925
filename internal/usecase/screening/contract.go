package screening

import "time"

// Normalizer turns raw text into scoring tokens.
type Normalizer interface {
	Normalize(text string) []string
}

// Observer receives per-screening measurements (metrics sink).
type Observer interface {
	ObserveScreening(status string, stats Stats, elapsed time.Duration)
}
