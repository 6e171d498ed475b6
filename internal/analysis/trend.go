package analysis

import "sort"

// Trending returns the posts that carry velocity, fastest likes gain first.
// An empty result is a normal outcome.
func Trending(posts []Post) []Post {
	out := make([]Post, 0)
	for _, p := range posts {
		if p.Velocity != nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Velocity.Likes > out[j].Velocity.Likes
	})
	return out
}
