// Package templates provides the HTML email layout and content blocks for
// newsletter sends.
package templates

import (
	"bytes"
	"html/template"
	"log"
)

// EmailLayoutProps drives the outer email shell.
type EmailLayoutProps struct {
	Title            string
	SiteTitle        string
	Content          string
	UnsubscribeURL   string
	TrackingPixelURL string
}

// Internal template data structure with safe HTML typing
type emailTemplateData struct {
	Title            string
	SiteTitle        string
	Content          template.HTML // Mark as safe HTML to prevent escaping
	UnsubscribeURL   string
	TrackingPixelURL string
}

// emailLayoutTemplate is the compiled template for the email layout.
var emailLayoutTemplate = template.Must(template.New("emailLayout").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
  </head>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #f4f4f4; padding: 20px; border-radius: 5px; margin-bottom: 20px;">
      <h1 style="color: #333; margin-top: 0;">{{.SiteTitle}}</h1>
    </div>

    {{.Content}}

    <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

    <p style="font-size: 12px; color: #999; text-align: center;">
      You're receiving this because you subscribed to our newsletter.<br>
      <a href="{{.UnsubscribeURL}}" style="color: #999;">Unsubscribe</a>
    </p>
    {{if .TrackingPixelURL}}<img src="{{.TrackingPixelURL}}" width="1" height="1" alt="" style="display: block;">{{end}}
  </body>
</html>`))

// GetEmailLayout renders the outer shell around already-rendered content.
func GetEmailLayout(props EmailLayoutProps) string {
	data := emailTemplateData{
		Title:            props.Title,
		SiteTitle:        props.SiteTitle,
		Content:          template.HTML(props.Content),
		UnsubscribeURL:   props.UnsubscribeURL,
		TrackingPixelURL: props.TrackingPixelURL,
	}

	var buf bytes.Buffer
	if err := emailLayoutTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: failed to render email layout: %v", err)
		return ""
	}
	return buf.String()
}
