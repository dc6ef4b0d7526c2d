package dispatch

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"LetterForge/internal/models"
)

var newsletterTmpl = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
      body {
        font-family: Arial, sans-serif;
        line-height: 1.6;
        color: #333;
        max-width: 800px;
        margin: 0 auto;
        padding: 20px;
      }
      h1, h2 {
        color: #2c5282;
      }
      img {
        max-width: 100%;
        height: auto;
        margin: 20px 0;
      }
      .section {
        margin-bottom: 40px;
        padding: 20px;
        background: #f8fafc;
        border-radius: 8px;
      }
    </style>
  </head>
  <body>
{{- range .Sections}}
    <div class="section">
      <h2>{{.Title}}</h2>
{{- range .Paragraphs}}
      <p>{{.}}</p>
{{- end}}
{{- if .ImageURL}}
      <img src="{{.ImageURL}}" alt="{{.Title}}">
{{- end}}
    </div>
{{- end}}
  </body>
</html>
`))

type sectionView struct {
	Title      string
	Paragraphs []string
	ImageURL   string
}

// RenderHTML assembles the fixed newsletter email body from completed
// sections, in section_number order as given.
func RenderHTML(sections []models.NewsletterSection) (string, error) {
	views := make([]sectionView, 0, len(sections))
	for _, sec := range sections {
		v := sectionView{Title: sec.Title}
		if sec.Content != nil {
			for _, para := range strings.Split(*sec.Content, "\n\n") {
				if para = strings.TrimSpace(para); para != "" {
					v.Paragraphs = append(v.Paragraphs, para)
				}
			}
		}
		if sec.ImageURL != nil {
			v.ImageURL = *sec.ImageURL
		}
		views = append(views, v)
	}

	var buf bytes.Buffer
	if err := newsletterTmpl.Execute(&buf, struct{ Sections []sectionView }{views}); err != nil {
		return "", fmt.Errorf("render newsletter html: %w", err)
	}
	return buf.String(), nil
}

// FormatSubject builds the conventional newsletter subject line, e.g.
// "September 2026 Acme Newsletter".
func FormatSubject(companyName string, date time.Time) string {
	return fmt.Sprintf("%s %d %s Newsletter", date.Month().String(), date.Year(), companyName)
}
