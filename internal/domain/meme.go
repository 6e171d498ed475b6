package domain

import (
	"strings"
	"time"

	"github.com/orgball2608/meme-trend-bot/pkg/errors"
)

// Platforms known to the collectors. The set is open; any non-empty
// string is accepted as a source platform.
const (
	PlatformVK       = "vk"
	PlatformTelegram = "telegram"
)

// Meme is a collected post as stored in the memes table. Engagement
// counters are nil when the source did not report them.
type Meme struct {
	ID          int64
	ImageURL    string
	LocalPath   string
	SourceURL   string
	Platform    string
	PostedAt    time.Time
	CollectedAt time.Time
	Likes       *int64
	Views       *int64
	Comments    *int64
	Shares      *int64
	Caption     string
	ImageHash   string
	Tags        []string
}

// Validate refuses records that would corrupt an analysis run.
func (m *Meme) Validate() error {
	if strings.TrimSpace(m.ImageURL) == "" && strings.TrimSpace(m.LocalPath) == "" {
		return errors.Invalid(errors.CodeMissingImage, "meme %q has neither image url nor local path", m.SourceURL)
	}
	if m.PostedAt.IsZero() {
		return errors.Invalid(errors.CodeInvalidTimestamp, "meme %q has no post timestamp", m.ImageURL)
	}
	if strings.TrimSpace(m.Platform) == "" {
		return errors.Invalid(errors.CodeMissingPlatform, "meme %q has no source platform", m.ImageURL)
	}
	return nil
}

// ImageRef returns the best available image reference, remote first.
func (m *Meme) ImageRef() string {
	if m.ImageURL != "" {
		return m.ImageURL
	}
	return m.LocalPath
}

// Count returns *p or 0 for a nil or negative counter.
func Count(p *int64) int64 {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// NormalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
