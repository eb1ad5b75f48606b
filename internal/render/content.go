package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentFormatter turns user-written post and comment bodies into safe HTML.
// Bodies are Markdown; single newlines become line breaks.
type ContentFormatter struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewContentFormatter() *ContentFormatter {
	return &ContentFormatter{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.Linkify,
				extension.Strikethrough,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Format renders content and strips anything the sanitizer does not allow.
func (f *ContentFormatter) Format(content string) (template.HTML, error) {
	var out bytes.Buffer
	if err := f.markdown.Convert([]byte(content), &out); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return template.HTML(f.sanitizer.SanitizeBytes(out.Bytes())), nil
}
