package render_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.NewContentFormatter())
	require.NoError(t, err)
	return r
}

func TestContentFormatter_Format(t *testing.T) {
	f := render.NewContentFormatter()

	tests := []struct {
		name        string
		content     string
		contains    []string
		notContains []string
	}{
		{
			name:     "newlines become line breaks",
			content:  "first line\nsecond line",
			contains: []string{"first line<br", "second line"},
		},
		{
			name:     "markdown emphasis",
			content:  "some **bold** text",
			contains: []string{"<strong>bold</strong>"},
		},
		{
			name:        "script tags are removed",
			content:     "hello <script>alert(1)</script>",
			notContains: []string{"<script>"},
		},
		{
			name:        "javascript links are removed",
			content:     "[click](javascript:alert(1))",
			notContains: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.Format(tt.content)
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, string(out), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, string(out), s)
			}
		})
	}
}

func TestRenderer_Pages(t *testing.T) {
	r := newRenderer(t)

	alice := &domain.User{Username: "alice"}
	bob := &domain.User{Username: "bob"}
	post := &domain.Post{ID: 42, Subject: "Hello", Content: "World", CreatedBy: "alice", CreatedAt: time.Now()}
	comment := &domain.Comment{ID: 7, PostID: 42, Content: "nice", CreatedBy: "bob", CreatedAt: time.Now()}

	vErr := domain.NewValidationError()
	vErr.Add(domain.FieldUsername, "This user name is taken.")

	tests := []struct {
		name        string
		page        string
		data        any
		contains    []string
		notContains []string
	}{
		{
			name:     "front lists posts",
			page:     render.PageFront,
			data:     render.FrontView{Posts: []*domain.Post{post}},
			contains: []string{"Hello", `href="/blog/42"`, "Log in"},
		},
		{
			name:     "signup shows field errors and keeps input",
			page:     render.PageSignup,
			data:     render.SignupView{Username: "alice", Email: "a@b.co", Errors: vErr},
			contains: []string{"This user name is taken.", `value="alice"`, `value="a@b.co"`},
		},
		{
			name:     "signup without errors",
			page:     render.PageSignup,
			data:     render.SignupView{},
			contains: []string{`name="verify"`},
		},
		{
			name:     "owner sees edit links but no like link",
			page:     render.PagePermalink,
			data:     render.PostView{Layout: render.Layout{User: alice}, Post: post, Comments: []*domain.Comment{comment}, Likes: 3},
			contains: []string{"/blog/edit?post_id=42", "/blog/delete?post_id=42", `<span id="likes">3</span>`, "nice"},
			notContains: []string{
				"/blog/like?post_id=42",
				"/blog/comment/edit?comment_id=7",
			},
		},
		{
			name:        "other user can like and edit own comment",
			page:        render.PagePermalink,
			data:        render.PostView{Layout: render.Layout{User: bob}, Post: post, Comments: []*domain.Comment{comment}, Liked: true},
			contains:    []string{"/blog/like?post_id=42", "unlike", "/blog/comment/edit?comment_id=7"},
			notContains: []string{"/blog/edit?post_id=42"},
		},
		{
			name:        "anonymous sees no actions",
			page:        render.PagePermalink,
			data:        render.PostView{Post: post},
			notContains: []string{"/blog/like?", "/blog/edit?", "/blog/newcomment?"},
		},
		{
			name:     "inline error on post page",
			page:     render.PagePermalink,
			data:     render.PostView{Layout: render.Layout{User: alice}, Post: post, Error: "You can't like your own post."},
			contains: []string{"You can&#39;t like your own post."},
		},
		{
			name:     "new post keeps input",
			page:     render.PageNewPost,
			data:     render.PostFormView{Layout: render.Layout{User: alice}, Subject: "draft", Error: "subject and content, please!"},
			contains: []string{`value="draft"`, "subject and content, please!"},
		},
		{
			name:     "edit comment form",
			page:     render.PageEditComment,
			data:     render.CommentFormView{Layout: render.Layout{User: bob}, PostID: 42, CommentID: 7, Content: "nice"},
			contains: []string{"/blog/comment/edit?comment_id=7", "nice"},
		},
		{
			name:     "welcome greets user",
			page:     render.PageWelcome,
			data:     render.WelcomeView{Username: "alice"},
			contains: []string{"Welcome, alice!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, r.Render(rec, http.StatusOK, tt.page, tt.data))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

			body := rec.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestRenderer_EscapesUserInput(t *testing.T) {
	r := newRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, http.StatusOK, render.PageWelcome, render.WelcomeView{Username: "<b>x</b>"})
	require.NoError(t, err)

	assert.NotContains(t, rec.Body.String(), "<b>x</b>")
	assert.Contains(t, rec.Body.String(), "&lt;b&gt;x&lt;/b&gt;")
}

func TestRenderer_Status(t *testing.T) {
	r := newRenderer(t)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusNotFound, render.PageNotFound, render.Layout{}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderer_UnknownPage(t *testing.T) {
	r := newRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, http.StatusOK, "missing", nil)
	assert.Error(t, err)
	assert.Zero(t, rec.Body.Len())
}
