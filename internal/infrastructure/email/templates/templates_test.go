package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEmailLayout(t *testing.T) {
	html := GetEmailLayout(EmailLayoutProps{
		Title:            "New Post",
		SiteTitle:        "Shop Guide",
		Content:          `<h2>Hello</h2>`,
		UnsubscribeURL:   "https://shopguide.blog/unsubscribe",
		TrackingPixelURL: "https://shopguide.blog/api/v1/newsletter/track/open?emailId=abc&email=a%40b.com",
	})

	assert.Contains(t, html, "<h1 style=\"color: #333; margin-top: 0;\">Shop Guide</h1>")
	assert.Contains(t, html, "<h2>Hello</h2>", "content must not be escaped")
	assert.Contains(t, html, `href="https://shopguide.blog/unsubscribe"`)
	assert.Contains(t, html, `width="1" height="1"`)
}

func TestGetEmailLayout_NoPixelWhenURLEmpty(t *testing.T) {
	html := GetEmailLayout(EmailLayoutProps{Title: "T", SiteTitle: "S", Content: "c"})
	assert.NotContains(t, html, "<img")
}

func TestGetPostEmailContent(t *testing.T) {
	html := GetPostEmailContent(PostEmailProps{
		PostTitle:   "Choosing a Lathe",
		SummaryHTML: "<p>A <strong>buyer's</strong> guide.</p>",
		MainPoints:  []string{"Budget realistically", "Mind the spindle bore"},
		ReadURL:     "https://shopguide.blog/api/v1/newsletter/track/click?emailId=abc",
	})

	assert.Contains(t, html, "Choosing a Lathe")
	assert.Contains(t, html, "<p>A <strong>buyer's</strong> guide.</p>", "pre-rendered summary must pass through unescaped")
	assert.Contains(t, html, "Budget realistically")
	assert.Contains(t, html, "In this post:")
	assert.Contains(t, html, "Read Full Article")
}

func TestGetPostEmailContent_EscapesPlainSummary(t *testing.T) {
	html := GetPostEmailContent(PostEmailProps{
		PostTitle: "Post",
		Summary:   `Tips & tricks for <newbies>`,
		ReadURL:   "https://example.com",
	})

	assert.Contains(t, html, "Tips &amp; tricks for &lt;newbies&gt;")
}

func TestGetPostEmailText(t *testing.T) {
	text := GetPostEmailText("Shop Guide", "Post Title", "Summary line.",
		"https://shopguide.blog/blog/post", "https://shopguide.blog/unsubscribe",
		[]string{"Point one"})

	assert.Contains(t, text, "Shop Guide")
	assert.Contains(t, text, "Post Title")
	assert.Contains(t, text, "- Point one")
	assert.Contains(t, text, "Unsubscribe: https://shopguide.blog/unsubscribe")
	assert.NotContains(t, text, "<")
}
