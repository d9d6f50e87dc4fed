package analytics

import "math"

// summary holds population statistics of a sample.
type summary struct {
	n    int
	sum  float64
	mean float64
	std  float64
	min  float64
	max  float64
}

// summarize computes population statistics (divide by N). An empty sample
// yields the zero summary.
func summarize(xs []float64) summary {
	if len(xs) == 0 {
		return summary{}
	}
	s := summary{n: len(xs), min: xs[0], max: xs[0]}
	for _, x := range xs {
		s.sum += x
		s.min = math.Min(s.min, x)
		s.max = math.Max(s.max, x)
	}
	s.mean = s.sum / float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - s.mean
		ss += d * d
	}
	s.std = math.Sqrt(ss / float64(len(xs)))
	return s
}

func mean(xs []float64) float64 {
	return summarize(xs).mean
}
