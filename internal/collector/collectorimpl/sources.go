package collectorimpl

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/orgball2608/meme-trend-bot/internal/collector"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
)

const (
	vkMemesPerPublic        = 5
	telegramMemesPerChannel = 3
	downloadDir             = "static/memes"
)

// simulated is the shared part of the generated sources. Real platform
// access is out of scope; the generated records have the shape and value
// ranges a real client would report.
type simulated struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func newSimulated(seed int64, now func() time.Time) simulated {
	if now == nil {
		now = time.Now
	}
	return simulated{rnd: rand.New(rand.NewSource(seed)), now: now}
}

// between returns a value in [lo, hi].
func (s *simulated) between(lo, hi int64) int64 {
	return lo + s.rnd.Int63n(hi-lo+1)
}

// postedWithin returns a post time up to maxAge before now.
func (s *simulated) postedWithin(maxAge time.Duration) time.Time {
	return s.now().Add(-time.Duration(s.rnd.Int63n(int64(maxAge))))
}

type VKSource struct {
	simulated
	public string
}

func NewVKSource(public string, seed int64, now func() time.Time) *VKSource {
	return &VKSource{simulated: newSimulated(seed, now), public: public}
}

var _ collector.Source = (*VKSource)(nil)

func (s *VKSource) Platform() string { return domain.PlatformVK }
func (s *VKSource) Name() string     { return s.public }

func (s *VKSource) Fetch(ctx context.Context) ([]domain.Meme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memes := make([]domain.Meme, 0, vkMemesPerPublic)
	for i := 0; i < vkMemesPerPublic; i++ {
		likes := s.between(100, 10000)
		imageURL := fmt.Sprintf("https://example.com/vk/%s/meme%d.jpg", s.public, i)
		memes = append(memes, domain.Meme{
			ImageURL:    imageURL,
			LocalPath:   fmt.Sprintf("%s/vk_%s_%d.jpg", downloadDir, s.public, i),
			SourceURL:   "https://vk.com/" + s.public,
			Platform:    domain.PlatformVK,
			PostedAt:    s.postedWithin(72 * time.Hour),
			CollectedAt: s.now(),
			Likes:       domain.Int64(likes),
			Views:       domain.Int64(s.between(likes, likes*10)),
			Comments:    domain.Int64(s.between(10, 1000)),
			Shares:      domain.Int64(s.between(5, 500)),
			Caption:     "Мем из паблика " + s.public,
			ImageHash:   imageHash(imageURL),
			Tags:        []string{s.public, "мем", "юмор"},
		})
	}
	return memes, nil
}

type TelegramSource struct {
	simulated
	channel string
}

func NewTelegramSource(channel string, seed int64, now func() time.Time) *TelegramSource {
	return &TelegramSource{simulated: newSimulated(seed, now), channel: channel}
}

var _ collector.Source = (*TelegramSource)(nil)

func (s *TelegramSource) Platform() string { return domain.PlatformTelegram }
func (s *TelegramSource) Name() string     { return s.channel }

// Fetch reports no likes, comments or shares: channels only expose views.
func (s *TelegramSource) Fetch(ctx context.Context) ([]domain.Meme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memes := make([]domain.Meme, 0, telegramMemesPerChannel)
	for i := 0; i < telegramMemesPerChannel; i++ {
		imageURL := fmt.Sprintf("https://example.com/telegram/%s/meme%d.jpg", s.channel, i)
		memes = append(memes, domain.Meme{
			ImageURL:    imageURL,
			LocalPath:   fmt.Sprintf("%s/tg_%s_%d.jpg", downloadDir, s.channel, i),
			SourceURL:   "https://t.me/" + s.channel,
			Platform:    domain.PlatformTelegram,
			PostedAt:    s.postedWithin(72 * time.Hour),
			CollectedAt: s.now(),
			Likes:       domain.Int64(0),
			Views:       domain.Int64(s.between(1000, 50000)),
			Comments:    domain.Int64(0),
			Shares:      domain.Int64(0),
			Caption:     "Мем из канала " + s.channel,
			ImageHash:   imageHash(imageURL),
			Tags:        []string{s.channel, "мем", "телеграм"},
		})
	}
	return memes, nil
}

// DefaultSources builds one source per configured public and channel.
func DefaultSources(vkPublics, telegramChannels []string) []collector.Source {
	seed := time.Now().UnixNano()
	sources := make([]collector.Source, 0, len(vkPublics)+len(telegramChannels))
	for i, public := range vkPublics {
		sources = append(sources, NewVKSource(public, seed+int64(i), nil))
	}
	for i, channel := range telegramChannels {
		sources = append(sources, NewTelegramSource(channel, seed+int64(len(vkPublics)+i), nil))
	}
	return sources
}

func imageHash(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
