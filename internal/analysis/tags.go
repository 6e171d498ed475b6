package analysis

import "sort"

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagFrequency counts tag occurrences over all posts. The result is
// ordered by count, then by the order in which tags were first seen.
func TagFrequency(posts []Post) []TagCount {
	index := make(map[string]int)
	out := make([]TagCount, 0)
	for _, p := range posts {
		for _, t := range p.Tags {
			i, ok := index[t]
			if !ok {
				i = len(out)
				index[t] = i
				out = append(out, TagCount{Tag: t})
			}
			out[i].Count++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
