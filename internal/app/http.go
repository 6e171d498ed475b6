package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/orgball2608/meme-trend-bot/internal/domain"
	"github.com/orgball2608/meme-trend-bot/internal/reportcache"
	"github.com/orgball2608/meme-trend-bot/internal/repositories/meme"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	apperrors "github.com/orgball2608/meme-trend-bot/pkg/errors"
	"github.com/orgball2608/meme-trend-bot/pkg/logger"
	"go.uber.org/fx"
)

type HttpOpts struct {
	fx.In

	LC       fx.Lifecycle
	Logger   logger.Logger
	Config   *config.Config
	Cache    reportcache.Cache
	MemeRepo meme.Repository
}

type Handler struct {
	Cache    reportcache.Cache
	MemeRepo meme.Repository
	Logger   logger.Logger
}

// memeView is the JSON shape of a stored meme.
type memeView struct {
	ID          int64     `json:"id"`
	ImageURL    string    `json:"image_url,omitempty"`
	LocalPath   string    `json:"local_path,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	Platform    string    `json:"source_platform"`
	PostedAt    time.Time `json:"post_date"`
	CollectedAt time.Time `json:"collected_at"`
	Likes       *int64    `json:"likes"`
	Views       *int64    `json:"views"`
	Comments    *int64    `json:"comments"`
	Shares      *int64    `json:"shares"`
	Caption     string    `json:"text_content,omitempty"`
	Tags        []string  `json:"tags"`
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.healthCheck)
	mux.HandleFunc("GET /report", h.latestReport)
	mux.HandleFunc("GET /memes", h.listMemes)
	mux.HandleFunc("GET /memes/{id}", h.getMeme)
	return mux
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.Logger.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		h.Logger.Error("Failed to write response", "error", err)
	}
}

func (h *Handler) latestReport(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Cache.Latest(r.Context())
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "no report has been published yet")
			return
		}
		h.Logger.Error("Failed to read cached report", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "report cache unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		h.Logger.Error("Failed to write response", "error", err)
	}
}

// memeList is the /memes payload: the matching memes plus the values
// the source and tag filters accept.
type memeList struct {
	Memes   []memeView `json:"memes"`
	Sources []string   `json:"sources"`
	Tags    []string   `json:"tags"`
}

func (h *Handler) listMemes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	memes, err := h.MemeRepo.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("Failed to list memes", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list memes")
		return
	}
	sources, err := h.MemeRepo.Platforms(r.Context())
	if err != nil {
		h.Logger.Error("Failed to list sources", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}
	tags, err := h.MemeRepo.DistinctTags(r.Context())
	if err != nil {
		h.Logger.Error("Failed to list tags", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}

	out := memeList{
		Memes:   make([]memeView, 0, len(memes)),
		Sources: nonNil(sources),
		Tags:    nonNil(tags),
	}
	for i := range memes {
		out.Memes = append(out.Memes, toView(&memes[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getMeme(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid meme id %q", r.PathValue("id")))
		return
	}

	m, err := h.MemeRepo.GetByID(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("Failed to get meme", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get meme")
		return
	}
	h.writeJSON(w, http.StatusOK, toView(m))
}

func toView(m *domain.Meme) memeView {
	return memeView{
		ID:          m.ID,
		ImageURL:    m.ImageURL,
		LocalPath:   m.LocalPath,
		SourceURL:   m.SourceURL,
		Platform:    m.Platform,
		PostedAt:    m.PostedAt,
		CollectedAt: m.CollectedAt,
		Likes:       m.Likes,
		Views:       m.Views,
		Comments:    m.Comments,
		Shares:      m.Shares,
		Caption:     m.Caption,
		Tags:        nonNil(m.Tags),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// parseFilter reads source, tag, sort_by, order and limit. Unknown sort
// columns fall back to likes desc and limit is capped at domain.MaxLimit.
func parseFilter(r *http.Request) (domain.MemeFilter, error) {
	q := r.URL.Query()
	filter := domain.MemeFilter{
		Platform: q.Get("source"),
		Tag:      strings.ToLower(strings.TrimSpace(q.Get("tag"))),
		SortBy:   q.Get("sort_by"),
		Desc:     true,
	}

	switch q.Get("order") {
	case "", "desc":
	case "asc":
		filter.Desc = false
	default:
		return filter, fmt.Errorf("order must be asc or desc")
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = limit
	}

	return filter.Normalize(), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// NewHttpServer serves the handler on App.Port for the lifetime of the app.
func NewHttpServer(opts HttpOpts) *http.Server {
	log := opts.Logger.WithComponent("HTTP")
	handler := &Handler{Cache: opts.Cache, MemeRepo: opts.MemeRepo, Logger: log}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting server", "addr", srv.Addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
