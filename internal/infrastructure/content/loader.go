// Package content loads blog posts from the markdown content directory so
// the newsletter engine can dispatch and check them without the site's
// rendering pipeline.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// frontmatter is the YAML header of a markdown post.
type frontmatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Draft   bool     `yaml:"draft"`
	Summary string   `yaml:"summary"`
	Images  []string `yaml:"images"`
	Tags    []string `yaml:"tags"`
}

// Loader reads markdown posts with YAML frontmatter from a directory tree.
type Loader struct {
	dir       string
	maxPoints int
	markdown  goldmark.Markdown
	logger    *logging.ChanneledLogger
}

// NewLoader creates a post loader rooted at dir. maxPoints caps the main
// points extracted per post for the email body.
func NewLoader(dir string, maxPoints int, logger *logging.ChanneledLogger) *Loader {
	return &Loader{
		dir:       dir,
		maxPoints: maxPoints,
		markdown:  goldmark.New(),
		logger:    logger,
	}
}

// LoadAll parses every .md/.mdx file under the content directory, newest
// first. Files that fail to parse are logged and skipped.
func (l *Loader) LoadAll() ([]newsletter.Post, error) {
	var posts []newsletter.Post

	err := filepath.WalkDir(l.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".mdx" {
			return nil
		}

		post, err := l.loadFile(path)
		if err != nil {
			l.logger.Content().Warn("Skipping unparseable post", "path", path, "error", err.Error())
			return nil
		}
		posts = append(posts, *post)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Content().Warn("Content directory missing", "dir", l.dir)
			return []newsletter.Post{}, nil
		}
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].Date > posts[j].Date })
	return posts, nil
}

// Published filters posts to non-draft entries dated now or earlier.
func Published(posts []newsletter.Post, now time.Time) []newsletter.Post {
	var out []newsletter.Post
	for _, post := range posts {
		if post.Draft || post.Date == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", post.Date)
		if err != nil {
			if date, err = time.Parse(time.RFC3339, post.Date); err != nil {
				continue
			}
		}
		if date.After(now) {
			continue
		}
		out = append(out, post)
	}
	return out
}

// RenderSummaryHTML renders a post summary (markdown) to HTML for the
// email body. Render failures fall back to empty, letting the template
// escape the plain summary instead.
func (l *Loader) RenderSummaryHTML(summary string) string {
	if summary == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := l.markdown.Convert([]byte(summary), &buf); err != nil {
		l.logger.Content().Warn("Summary markdown render failed", "error", err.Error())
		return ""
	}
	return buf.String()
}

func (l *Loader) loadFile(path string) (*newsletter.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, err
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("post %s has no title", path)
	}

	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &newsletter.Post{
		Title:      fm.Title,
		Slug:       slug,
		Date:       fm.Date,
		Summary:    fm.Summary,
		Draft:      fm.Draft,
		Images:     fm.Images,
		MainPoints: extractMainPoints(fm, body, l.maxPoints),
	}, nil
}

var (
	headingPattern  = regexp.MustCompile(`(?m)^#{2,3}\s+(.+)$`)
	bulletPattern   = regexp.MustCompile(`(?m)^\s*[-*]\s+(.+)$`)
	numberedPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s+(.+)$`)
)

// extractMainPoints pulls key takeaways from a post for the email body:
// the summary first, then H2/H3 headings, then list items, de-duplicated
// and capped at maxPoints.
func extractMainPoints(fm frontmatter, body string, maxPoints int) []string {
	var points []string
	if fm.Summary != "" {
		points = append(points, fm.Summary)
	}

	for _, match := range headingPattern.FindAllStringSubmatch(body, -1) {
		if len(points) >= maxPoints {
			break
		}
		points = append(points, strings.TrimSpace(match[1]))
	}
	if len(points) < maxPoints {
		for _, pattern := range []*regexp.Regexp{bulletPattern, numberedPattern} {
			for _, match := range pattern.FindAllStringSubmatch(body, -1) {
				if len(points) >= maxPoints {
					break
				}
				points = append(points, strings.TrimSpace(match[1]))
			}
		}
	}

	seen := make(map[string]bool, len(points))
	unique := points[:0]
	for _, p := range points {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}
	if len(unique) == 0 {
		fallback := fm.Summary
		if fallback == "" {
			fallback = fm.Title
		}
		return []string{fallback}
	}
	if len(unique) > maxPoints {
		unique = unique[:maxPoints]
	}
	return unique
}

// splitFrontmatter separates the YAML header from the markdown body.
func splitFrontmatter(raw []byte) (frontmatter, string, error) {
	var fm frontmatter

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return fm, "", fmt.Errorf("missing frontmatter delimiter")
	}
	rest := text[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, "", fmt.Errorf("unterminated frontmatter")
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, "", fmt.Errorf("invalid frontmatter: %w", err)
	}

	body := rest[end+4:]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	}
	return fm, body, nil
}
