package analysis

import "sort"

// Composite scores every post from the normalized columns. With all
// weighted metrics present the score is the weighted sum; otherwise it is
// the plain mean of the columns that are present, or 0 when none are.
func Composite(cols Columns, n int) []float64 {
	scores := make([]float64, n)

	if cols.Has(DefaultMetrics...) {
		for _, m := range DefaultMetrics {
			w := Weights[m]
			for i, x := range cols[m] {
				scores[i] += w * x
			}
		}
		return scores
	}

	var available []Metric
	for _, m := range DefaultMetrics {
		if cols.Has(m) {
			available = append(available, m)
		}
	}
	if len(available) == 0 {
		return scores
	}

	for _, m := range available {
		for i, x := range cols[m] {
			scores[i] += x
		}
	}
	for i := range scores {
		scores[i] /= float64(len(available))
	}
	return scores
}

// RankComposite orders posts by Score, highest first.
func RankComposite(posts []Post) []Post {
	return sortedDesc(posts, func(p *Post) float64 { return p.Score })
}

// RankByLikes orders posts by likes, highest first.
func RankByLikes(posts []Post) []Post {
	return sortedDesc(posts, func(p *Post) float64 { return float64(p.Likes) })
}

// RankByViews orders posts by views, highest first.
func RankByViews(posts []Post) []Post {
	return sortedDesc(posts, func(p *Post) float64 { return float64(p.Views) })
}

// sortedDesc returns a sorted copy. The sort is stable so equal keys keep
// their input order.
func sortedDesc(posts []Post, key func(*Post) float64) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return key(&out[i]) > key(&out[j])
	})
	return out
}
