package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoader_LoadAllParsesFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "choosing-a-lathe.md", `---
title: Choosing a Lathe
date: "2025-03-10"
summary: What to look for in a first lathe.
---

Intro paragraph.

## Budget realistically

## Mind the spindle bore

- Check runout before buying
`)

	loader := NewLoader(dir, 5, newTestLogger(t))
	posts, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "Choosing a Lathe", post.Title)
	assert.Equal(t, "choosing-a-lathe", post.Slug)
	assert.Equal(t, "2025-03-10", post.Date)
	assert.Equal(t, "What to look for in a first lathe.", post.Summary)
	assert.Equal(t, []string{
		"What to look for in a first lathe.",
		"Budget realistically",
		"Mind the spindle bore",
		"Check runout before buying",
	}, post.MainPoints)
}

func TestLoader_LoadAllSortsNewestFirstAndSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "older.md", "---\ntitle: Older\ndate: \"2024-01-01\"\n---\n\nBody.\n")
	writePost(t, dir, "newer.md", "---\ntitle: Newer\ndate: \"2025-01-01\"\n---\n\nBody.\n")
	writePost(t, dir, "broken.md", "no frontmatter here")
	writePost(t, dir, "notes.txt", "ignored entirely")

	loader := NewLoader(dir, 5, newTestLogger(t))
	posts, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "older", posts[1].Slug)
}

func TestLoader_MissingDirectoryIsEmpty(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope"), 5, newTestLogger(t))
	posts, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPublished_FiltersDraftsAndFutureDates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := []newsletter.Post{
		{Slug: "live", Date: "2025-05-01"},
		{Slug: "draft", Date: "2025-05-01", Draft: true},
		{Slug: "future", Date: "2025-07-01"},
		{Slug: "undated"},
		{Slug: "rfc3339", Date: "2025-04-01T09:00:00Z"},
		{Slug: "garbage", Date: "next tuesday"},
	}

	published := Published(posts, now)
	slugs := make([]string, 0, len(published))
	for _, p := range published {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"live", "rfc3339"}, slugs)
}

func TestLoader_MainPointsCappedAndFallback(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "many-points.md", `---
title: Many Points
date: "2025-01-01"
---

## One
## Two
## Three
## Four
`)
	writePost(t, dir, "bare.md", "---\ntitle: Bare Post\ndate: \"2025-01-02\"\n---\n\nJust prose, nothing else.\n")

	loader := NewLoader(dir, 3, newTestLogger(t))
	posts, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byName := map[string]newsletter.Post{}
	for _, p := range posts {
		byName[p.Slug] = p
	}

	assert.Len(t, byName["many-points"].MainPoints, 3)
	assert.Equal(t, []string{"Bare Post"}, byName["bare"].MainPoints, "title is the last-resort main point")
}

func TestLoader_RenderSummaryHTML(t *testing.T) {
	loader := NewLoader(t.TempDir(), 5, newTestLogger(t))

	html := loader.RenderSummaryHTML("A post about **carbide** inserts.")
	assert.Contains(t, html, "<strong>carbide</strong>")

	assert.Empty(t, loader.RenderSummaryHTML(""))
}
