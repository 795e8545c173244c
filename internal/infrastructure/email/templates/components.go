package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
)

// PostEmailProps drives the blog post notification content block.
type PostEmailProps struct {
	PostTitle   string
	Summary     string
	SummaryHTML string // pre-rendered markdown summary; wins over Summary
	MainPoints  []string
	ReadURL     string // already routed through the click-redirect endpoint
}

type postEmailData struct {
	PostTitle   string
	SummaryHTML template.HTML
	MainPoints  []string
	ReadURL     string
}

var postEmailTemplate = template.Must(template.New("postEmail").Parse(`
<h2 style="color: #2c3e50;">{{.PostTitle}}</h2>

{{if .SummaryHTML}}<div style="font-size: 16px; color: #666;">{{.SummaryHTML}}</div>{{end}}

{{if .MainPoints}}
<p style="font-size: 15px; color: #444; margin-bottom: 8px;"><strong>In this post:</strong></p>
<ul style="font-size: 15px; color: #555; padding-left: 20px;">
  {{range .MainPoints}}<li style="margin-bottom: 6px;">{{.}}</li>
  {{end}}
</ul>
{{end}}

<div style="margin: 30px 0;">
  <a href="{{.ReadURL}}"
     style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">
    Read Full Article &rarr;
  </a>
</div>`))

// GetPostEmailContent renders the content block for a blog post
// notification email.
func GetPostEmailContent(props PostEmailProps) string {
	summaryHTML := props.SummaryHTML
	if summaryHTML == "" && props.Summary != "" {
		var escaped bytes.Buffer
		template.HTMLEscape(&escaped, []byte(props.Summary))
		summaryHTML = "<p>" + escaped.String() + "</p>"
	}

	data := postEmailData{
		PostTitle:   props.PostTitle,
		SummaryHTML: template.HTML(summaryHTML),
		MainPoints:  props.MainPoints,
		ReadURL:     props.ReadURL,
	}

	var buf bytes.Buffer
	if err := postEmailTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: failed to render post email content: %v", err)
		return ""
	}
	return buf.String()
}

// GetPostEmailText renders the plain-text alternative for a blog post
// notification email.
func GetPostEmailText(siteTitle, postTitle, summary, readURL, unsubscribeURL string, mainPoints []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n", siteTitle, postTitle)
	if summary != "" {
		fmt.Fprintf(&b, "%s\n\n", summary)
	}
	for _, point := range mainPoints {
		fmt.Fprintf(&b, "- %s\n", point)
	}
	if len(mainPoints) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Read the full article: %s\n\n---\n", readURL)
	b.WriteString("You're receiving this because you subscribed to our newsletter.\n")
	fmt.Fprintf(&b, "Unsubscribe: %s", unsubscribeURL)
	return b.String()
}
