// Package render draws the blog's HTML pages from embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	PageFront,
	PageSignup,
	PageLogin,
	PageWelcome,
	PagePermalink,
	PageNewPost,
	PageEditPost,
	PageNewComment,
	PageEditComment,
	PageNotFound,
	PageError,
}

// shared templates parsed into every page
var partials = []string{
	"templates/base.html",
	"templates/post.html",
	"templates/comment.html",
}

type Renderer struct {
	pages map[string]*template.Template
}

func New(formatter *ContentFormatter) (*Renderer, error) {
	funcs := template.FuncMap{
		"markdown":    formatter.Format,
		"owns":        auth.CanMutate,
		"canLike":     auth.CanLike,
		"fieldError":  fieldError,
		"commentItem": commentItem,
		"date":        formatDate,
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		files := append([]string{"templates/" + page + ".html"}, partials...)
		tmpl, err := template.New(page + ".html").Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer and writes it with status. Nothing is
// written when the template fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func fieldError(vErr *domain.ValidationError, field string) string {
	return vErr.Get(field)
}

func commentItem(user *domain.User, comment *domain.Comment) CommentItem {
	return CommentItem{User: user, Comment: comment}
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
