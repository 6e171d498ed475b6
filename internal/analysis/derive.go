package analysis

import (
	"math"
	"time"
)

const (
	// RecencyDecay is k in exp(-k * age_days).
	RecencyDecay = 0.05
	// MinDaysActive floors the velocity denominator for fresh posts.
	MinDaysActive = 0.5
	// maxRecencyExponent caps the boost of posts dated far in the future
	// (about 16 years ahead) so the score stays finite.
	maxRecencyExponent = 300
)

// Virality is likes per view with views floored at one.
func Virality(likes, views int64) float64 {
	if views < 1 {
		views = 1
	}
	return float64(likes) / float64(views)
}

// AgeDays is the signed age of t at now, in days.
func AgeDays(now, t time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

// RecencyScore decays exponentially with age and equals 1 at age 0.
// Future posts score above 1, up to exp(maxRecencyExponent).
func RecencyScore(ageDays float64) float64 {
	return math.Exp(math.Min(-RecencyDecay*ageDays, maxRecencyExponent))
}

// InWindow reports whether t lies in [now-window, +inf).
func InWindow(now, t time.Time, window time.Duration) bool {
	return !t.Before(now.Add(-window))
}

// Derive attaches virality, recency and, inside the trend window, velocity
// to every post. now must be the single timestamp captured for the run.
func Derive(posts []Post, now time.Time, window time.Duration) {
	for i := range posts {
		p := &posts[i]
		p.Virality = Virality(p.Likes, p.Views)
		p.Recency = AgeDays(now, p.Meme.PostedAt)
		p.RecencyScore = RecencyScore(p.Recency)

		p.Velocity = nil
		if InWindow(now, p.Meme.PostedAt, window) {
			days := math.Max(p.Recency, MinDaysActive)
			p.Velocity = &Velocity{
				DaysActive: days,
				Likes:      float64(p.Likes) / days,
				Views:      float64(p.Views) / days,
			}
		}
	}
}
