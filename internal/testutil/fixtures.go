package testutil

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	password string
	email    string
	scheme   auth.Scheme
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("user_%s", uuid.New().String()[:8]),
		password: "secret1",
		scheme:   auth.SchemeSHA256,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithScheme sets the password hashing scheme
func (b *UserBuilder) WithScheme(scheme auth.Scheme) *UserBuilder {
	b.scheme = scheme
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hash, err := auth.NewPasswordHasher(b.scheme).Hash(b.username, b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if b.email != "" {
		email := b.email
		user.Email = &email
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// PostBuilder creates test posts with a builder pattern
type PostBuilder struct {
	author    *domain.User
	subject   string
	content   string
	namespace string
	createdAt time.Time
}

// NewPostBuilder creates a new PostBuilder with default values
func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		subject:   "Test subject",
		content:   "Test content",
		namespace: domain.DefaultNamespace,
	}
}

// WithAuthor sets the post author
func (b *PostBuilder) WithAuthor(user *domain.User) *PostBuilder {
	b.author = user
	return b
}

// WithSubject sets the subject
func (b *PostBuilder) WithSubject(subject string) *PostBuilder {
	b.subject = subject
	return b
}

// WithContent sets the content
func (b *PostBuilder) WithContent(content string) *PostBuilder {
	b.content = content
	return b
}

// WithNamespace sets the namespace the post is stored under
func (b *PostBuilder) WithNamespace(namespace string) *PostBuilder {
	b.namespace = namespace
	return b
}

// WithCreatedAt backdates the post
func (b *PostBuilder) WithCreatedAt(at time.Time) *PostBuilder {
	b.createdAt = at
	return b
}

// Build creates the post in the database
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	if b.author == nil {
		t.Fatal("PostBuilder requires an author")
	}

	post := &domain.Post{
		Namespace: b.namespace,
		Subject:   b.subject,
		Content:   b.content,
		CreatedBy: b.author.Username,
		CreatedAt: b.createdAt,
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

// BuildComment adds a comment by author to post
func BuildComment(t *testing.T, db *gorm.DB, post *domain.Post, author *domain.User, content string) *domain.Comment {
	t.Helper()

	comment := &domain.Comment{
		Namespace: post.Namespace,
		PostID:    post.ID,
		Content:   content,
		CreatedBy: author.Username,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	return comment
}

// Browser is an HTTP client that keeps cookies and does not follow redirects,
// so tests can assert on each hop.
type Browser struct {
	t      *testing.T
	ts     *TestServer
	Client *http.Client
}

// NewBrowser creates a browser with an empty cookie jar
func NewBrowser(t *testing.T, ts *TestServer) *Browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &Browser{
		t:  t,
		ts: ts,
		Client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get requests path on the test server
func (b *Browser) Get(path string) *http.Response {
	b.t.Helper()

	resp, err := b.Client.Get(b.ts.URL(path))
	if err != nil {
		b.t.Fatalf("GET %s failed: %v", path, err)
	}
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// PostForm submits form values to path
func (b *Browser) PostForm(path string, values url.Values) *http.Response {
	b.t.Helper()

	resp, err := b.Client.Post(b.ts.URL(path), "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	if err != nil {
		b.t.Fatalf("POST %s failed: %v", path, err)
	}
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Login submits the login form and fails the test unless it redirects
func (b *Browser) Login(username, password string) {
	b.t.Helper()

	resp := b.PostForm("/blog/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if resp.StatusCode != http.StatusFound {
		b.t.Fatalf("login as %s: unexpected status code: %d", username, resp.StatusCode)
	}
}

// Cookie returns the value of the named cookie for the test server
func (b *Browser) Cookie(name string) (string, bool) {
	u, _ := url.Parse(b.ts.BaseURL())
	for _, c := range b.Client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// SetCookie stores a cookie for the test server, e.g. a forged session
func (b *Browser) SetCookie(name, value string) {
	u, _ := url.Parse(b.ts.BaseURL())
	b.Client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}
