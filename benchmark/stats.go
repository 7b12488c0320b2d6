package benchmark

import (
	"math"
	"slices"
	"time"
)

// Statistics summarizes a sequence of timings, leaving the first Skip entries out of the mean and deviation.
type Statistics struct {
	// Timings holds every entry in insertion order, skipped ones included.
	Timings []time.Duration `json:"timings_ns"`

	Skip     int `json:"skip"`
	Retained int `json:"retained"`

	Mean time.Duration `json:"mean_ns"`
	// StdDev is the sample standard deviation of the retained entries, or 0 when fewer than two were retained.
	StdDev time.Duration `json:"stddev_ns"`
	// Min spans all the entries.
	Min time.Duration `json:"min_ns"`
}

// Summarize computes the statistics of timings. skip is clamped to [0, len(timings)-1]
// so that at least one entry is always retained.
func Summarize(timings []time.Duration, skip int) Statistics {
	s := Statistics{
		Timings: slices.Clone(timings),
	}

	if len(timings) == 0 {
		return s
	}

	s.Skip = max(0, min(skip, len(timings)-1))
	s.Min = slices.Min(timings)

	retained := timings[s.Skip:]
	s.Retained = len(retained)

	var sum float64
	for _, t := range retained {
		sum += float64(t)
	}
	mean := sum / float64(len(retained))
	s.Mean = time.Duration(math.Round(mean))

	if len(retained) < 2 {
		return s
	}

	var sq float64
	for _, t := range retained {
		d := float64(t) - mean
		sq += d * d
	}
	s.StdDev = time.Duration(math.Round(math.Sqrt(sq / float64(len(retained)-1))))

	return s
}
