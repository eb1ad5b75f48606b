package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertRedirect verifies a 302 to location
func AssertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode, "expected a redirect")
	assert.Equal(t, location, resp.Header.Get("Location"), "unexpected redirect target")
}

// ReadBody returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	return string(body)
}

// AssertPage verifies status and that the body contains every fragment
func AssertPage(t *testing.T, resp *http.Response, expectedStatus int, fragments ...string) string {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body := ReadBody(t, resp)
	for _, f := range fragments {
		assert.Contains(t, body, f)
	}
	return body
}
