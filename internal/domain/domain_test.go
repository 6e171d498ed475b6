package domain

import (
	"testing"
	"time"

	"github.com/orgball2608/meme-trend-bot/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMemeValidate(t *testing.T) {
	posted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		meme Meme
		code string
	}{
		{"valid", Meme{ImageURL: "u", Platform: PlatformVK, PostedAt: posted}, ""},
		{"local path only", Meme{LocalPath: "static/memes/a.jpg", Platform: PlatformVK, PostedAt: posted}, ""},
		{"no image", Meme{Platform: PlatformVK, PostedAt: posted}, errors.CodeMissingImage},
		{"no timestamp", Meme{ImageURL: "u", Platform: PlatformVK}, errors.CodeInvalidTimestamp},
		{"no platform", Meme{ImageURL: "u", Platform: " ", PostedAt: posted}, errors.CodeMissingPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meme.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsInvalidInput(err))
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, int64(0), Count(nil))
	assert.Equal(t, int64(0), Count(Int64(-5)))
	assert.Equal(t, int64(42), Count(Int64(42)))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"мем", "cats"}, NormalizeTags([]string{" Мем ", "cats", "", "МЕМ", "Cats"}))
	assert.Empty(t, NormalizeTags(nil))
}

func TestImageRef(t *testing.T) {
	m := Meme{LocalPath: "static/memes/a.jpg"}
	assert.Equal(t, "static/memes/a.jpg", m.ImageRef())

	m.ImageURL = "https://example.com/a.jpg"
	assert.Equal(t, "https://example.com/a.jpg", m.ImageRef())
}

func TestMemeFilterNormalize(t *testing.T) {
	f := MemeFilter{SortBy: "caption"}.Normalize()
	assert.Equal(t, MemeFilter{SortBy: DefaultSortBy, Desc: true, Limit: DefaultLimit}, f)

	f = MemeFilter{SortBy: "post_date", Limit: 5}.Normalize()
	assert.Equal(t, MemeFilter{SortBy: "post_date", Limit: 5}, f)

	f = MemeFilter{SortBy: "views", Desc: true, Limit: 100000000}.Normalize()
	assert.Equal(t, uint64(MaxLimit), f.Limit)
}
