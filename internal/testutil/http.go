package testutil

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestServer wraps httptest.Server with a browser-like client that keeps
// cookies and does not follow redirects, so tests can assert on them.
type TestServer struct {
	*httptest.Server
	t      *testing.T
	client *http.Client
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &TestServer{
		Server: server,
		t:      t,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (ts *TestServer) do(req *http.Request) *http.Response {
	resp, err := ts.client.Do(req)
	require.NoError(ts.t, err)
	return resp
}

func (ts *TestServer) GET(path string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(ts.t, err)
	return ts.do(req)
}

func (ts *TestServer) POSTForm(path string, form url.Values) *http.Response {
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

// POSTFile sends a multipart form with one file part named fileField.
func (ts *TestServer) POSTFile(path, fileField, filename string, content []byte, fields map[string]string) *http.Response {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(ts.t, w.WriteField(k, v))
	}
	if filename != "" || content != nil {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(ts.t, err)
		_, err = part.Write(content)
		require.NoError(ts.t, err)
	}
	require.NoError(ts.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, &body)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ts.do(req)
}

// Follow issues a GET to the Location of a redirect response.
func (ts *TestServer) Follow(resp *http.Response) *http.Response {
	ts.t.Helper()
	require.True(ts.t, resp.StatusCode >= 300 && resp.StatusCode < 400, "expected redirect, got %d", resp.StatusCode)
	resp.Body.Close()
	return ts.GET(resp.Header.Get("Location"))
}

// Body reads and closes the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func AssertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}
