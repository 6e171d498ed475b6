package analysis

import "math"

// Columns holds one normalized vector per metric, aligned with the posts
// of a run. A metric missing from the map is absent for the whole run.
type Columns map[Metric][]float64

// Has reports whether every metric in ms is present.
func (c Columns) Has(ms ...Metric) bool {
	for _, m := range ms {
		if _, ok := c[m]; !ok {
			return false
		}
	}
	return true
}

// Vectors extracts the raw values of the requested metrics.
func Vectors(posts []Post, metrics []Metric) map[Metric][]float64 {
	out := make(map[Metric][]float64, len(metrics))
	for _, m := range metrics {
		v := make([]float64, len(posts))
		ok := true
		for i := range posts {
			v[i], ok = posts[i].Value(m)
			if !ok {
				break
			}
		}
		if ok {
			out[m] = v
		}
	}
	return out
}

// Normalize rescales each vector to [0, 1] independently. Vectors whose
// length differs from n or that hold a non-finite value are left out.
func Normalize(vectors map[Metric][]float64, n int) Columns {
	cols := make(Columns, len(vectors))
	for m, v := range vectors {
		if len(v) != n || !finite(v) {
			continue
		}
		cols[m] = MinMax(v)
	}
	return cols
}

// MinMax maps the minimum to 0 and the maximum to 1. A vector that sums to
// zero, or whose values are all equal, maps to all zeros.
func MinMax(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}

	sum, lo, hi := 0.0, v[0], v[0]
	for _, x := range v {
		sum += x
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if sum == 0 || hi == lo {
		return out
	}

	span := hi - lo
	for i, x := range v {
		out[i] = (x - lo) / span
	}
	return out
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func attachColumns(posts []Post, cols Columns) {
	for i := range posts {
		posts[i].Normalized = make(map[Metric]float64, len(cols))
		for m, v := range cols {
			posts[i].Normalized[m] = v[i]
		}
	}
}
