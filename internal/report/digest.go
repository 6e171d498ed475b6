package report

import (
	"fmt"
	"strings"

	"github.com/orgball2608/meme-trend-bot/internal/analysis"
	"github.com/orgball2608/meme-trend-bot/pkg/formatter"
)

const captionLimit = 40

// Digest renders the report as a Telegram MarkdownV2 message with the
// first topN entries of every view.
func Digest(r *analysis.Report, topN int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s*\n", esc("Meme report "+r.GeneratedAt.Format("02.01.2006 15:04")))
	if r.Empty() {
		sb.WriteString(esc("No memes to analyse yet."))
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s\n", esc(fmt.Sprintf("Posts analysed: %s", formatter.FormatNumber(int64(r.Total)))))
	if len(r.Rejected) > 0 {
		fmt.Fprintf(&sb, "%s\n", esc(fmt.Sprintf("Skipped without post date: %d", len(r.Rejected))))
	}

	for _, v := range Views {
		if block := Section(r, v, topN); block != "" {
			sb.WriteString("\n")
			sb.WriteString(block)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// View selects one ranking of a report.
type View int

const (
	ViewLikes View = iota
	ViewViews
	ViewTrending
	ViewOverall
	ViewTags
)

// Views lists every view in digest order.
var Views = []View{ViewLikes, ViewViews, ViewTrending, ViewOverall, ViewTags}

// Section renders the first topN entries of one view as a titled
// MarkdownV2 block ending in a newline, or "" when the view is empty.
func Section(r *analysis.Report, v View, topN int) string {
	var sb strings.Builder

	switch v {
	case ViewLikes:
		section(&sb, "Top by likes", top(r.ByLikes, topN), func(p analysis.Post) string {
			return "❤️ " + formatter.FormatNumber(p.Likes)
		})
	case ViewViews:
		section(&sb, "Top by views", top(r.ByViews, topN), func(p analysis.Post) string {
			return "👁 " + formatter.FormatNumber(p.Views)
		})
	case ViewTrending:
		days := formatter.FormatFloat(r.TrendWindow.Hours()/24, 0)
		section(&sb, "Trending, last "+days+" days", top(r.Trending, topN), func(p analysis.Post) string {
			return formatter.FormatFloat(p.Velocity.Likes, 2) + " likes/day"
		})
	case ViewOverall:
		section(&sb, "Overall", top(r.Overall, topN), func(p analysis.Post) string {
			return "score " + formatter.FormatFloat(p.Score, 3)
		})
	case ViewTags:
		tags := top(r.Tags, topN)
		if len(tags) > 0 {
			fmt.Fprintf(&sb, "*%s*\n", esc("Popular tags"))
			for _, t := range tags {
				fmt.Fprintf(&sb, "%s\n", esc(fmt.Sprintf("#%s %d", t.Tag, t.Count)))
			}
		}
	}

	return sb.String()
}

func section(sb *strings.Builder, title string, posts []analysis.Post, value func(analysis.Post) string) {
	if len(posts) == 0 {
		return
	}
	fmt.Fprintf(sb, "*%s*\n", esc(title))
	for i, p := range posts {
		fmt.Fprintf(sb, "%s %s %s\n", esc(fmt.Sprintf("%d.", i+1)), link(p), esc(value(p)))
	}
}

func link(p analysis.Post) string {
	label := p.Meme.Caption
	if label == "" {
		label = fmt.Sprintf("%s #%d", p.Meme.Platform, p.ID())
	}
	label = formatter.Truncate(label, captionLimit)

	url := p.Meme.SourceURL
	if url == "" {
		url = p.Meme.ImageURL
	}
	if url == "" {
		return esc(label)
	}
	return fmt.Sprintf("[%s](%s)", esc(label), escURL(url))
}

func esc(s string) string {
	return formatter.EscapeMarkdownV2(s)
}

// escURL escapes the characters MarkdownV2 reserves inside link targets.
func escURL(s string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(s)
}
