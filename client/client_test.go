package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type doerFunc func(req *http.Request) (*http.Response, error)

func (fn doerFunc) Do(req *http.Request) (*http.Response, error) {
	return fn(req)
}

type limiterFunc func(ctx context.Context) error

func (fn limiterFunc) Wait(ctx context.Context) error { return fn(ctx) }

func testNew(t *testing.T, opts ...ClientOption) *Client {
	c := New(opts...)
	require.NotNil(t, c)
	return c
}

func TestNew(t *testing.T) {
	c := testNew(t)
	require.IsType(t, new(Client), c)
	assert.NotNil(t, c.client)
	assert.NotNil(t, c.limiter)
}

func TestNew_WithHttpClient(t *testing.T) {
	client := &http.Client{}
	c := testNew(t, WithHttpClient(client))
	assert.Same(t, client, c.client)
}

func TestNew_WithRateLimiter(t *testing.T) {
	l := rate.NewLimiter(rate.Every(requestInterval), 1)
	c := testNew(t, WithRateLimiter(l))
	assert.Same(t, l, c.limiter)
}

func TestClient_WithUserAgent(t *testing.T) {
	c := testNew(t)
	assert.Same(t, c, c.WithUserAgent("foobar"))
	assert.Equal(t, "foobar", c.ua)
}

func TestClient_baseURLs(t *testing.T) {
	c := testNew(t)
	assert.Equal(t, archivesBaseURL, c.ArchivesBaseURL())
	assert.Equal(t, submissionsBaseURL, c.SubmissionsBaseURL())
	assert.Equal(t, filesBaseURL, c.FilesBaseURL())

	c.WithArchivesBaseURL("http://localhost/archives").
		WithSubmissionsBaseURL("http://localhost/submissions").
		WithFilesBaseURL("http://localhost/files")
	assert.Equal(t, "http://localhost/archives", c.ArchivesBaseURL())
	assert.Equal(t, "http://localhost/submissions", c.SubmissionsBaseURL())
	assert.Equal(t, "http://localhost/files", c.FilesBaseURL())
}

func TestClient_Get(t *testing.T) {
	const ua = "Acme admin@acme.com"
	const url = "https://localhost"
	ctx := context.Background()
	testErr := errors.New("expected error")

	tests := []struct {
		name    string
		opts    func() (opts []ClientOption)
		mockDo  doerFunc
		get     func(c *Client) (*http.Response, error)
		wantErr bool
		errorIs error
	}{
		{
			name: "default",
		},
		{
			name: "WithRateLimit",
			opts: func() (opts []ClientOption) {
				limiter := limiterFunc(func(context.Context) error { return nil })
				return append(opts, WithRateLimiter(limiter))
			},
		},
		{
			name: "WithRateLimit error",
			opts: func() (opts []ClientOption) {
				limiter := limiterFunc(func(context.Context) error { return testErr })
				return append(opts, WithRateLimiter(limiter))
			},
			errorIs: testErr,
		},
		{
			name: "Do error",
			mockDo: func(req *http.Request) (*http.Response, error) {
				return nil, testErr
			},
			errorIs: testErr,
		},
		{
			name: "NewRequestWithContext error",
			get: func(c *Client) (*http.Response, error) {
				return c.Get(nil, url) //nolint:staticcheck
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDo := tt.mockDo
			if mockDo == nil {
				mockDo = func(req *http.Request) (*http.Response, error) {
					assert.Equal(t, url, req.URL.String())
					assert.Equal(t, ua, req.Header.Get("User-Agent"))
					return httptest.NewRecorder().Result(), nil
				}
			}
			opts := []ClientOption{WithHttpClient(mockDo)}
			if tt.opts != nil {
				opts = append(opts, tt.opts()...)
			}
			c := testNew(t, opts...).WithUserAgent(ua)

			callGet := func(ctx context.Context, url string) (*http.Response, error) {
				if tt.get != nil {
					return tt.get(c)
				}
				return c.Get(ctx, url)
			}
			resp, err := callGet(ctx, url)

			switch {
			case tt.wantErr:
				require.Error(t, err)
			case tt.errorIs != nil:
				require.ErrorIs(t, err, tt.errorIs)
			default:
				require.NoError(t, err)
				require.NotNil(t, resp)
				resp.Body.Close()
			}
		})
	}
}

func TestClient_GetJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/some.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foo": "bar"}`))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foo": `))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := testNew(t, WithRateLimiter(noLimit(t)))

	var value struct{ Foo string }
	require.NoError(t,
		c.GetJSON(context.Background(), srv.URL+"/some.json", &value))
	assert.Equal(t, "bar", value.Foo)

	err := c.GetJSON(context.Background(), srv.URL+"/missing.json", &value)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	var statusErr *UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode())

	require.Error(t,
		c.GetJSON(context.Background(), srv.URL+"/broken.json", &value))
}

func TestClient_IndexArchive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/320193/000032019324000001/index.json",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"directory": {"name": "000032019324000001",
  "parent-dir": "../",
  "item": [{"name": "ex1.htm", "type": "text.gif"}]}}`))
		})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := testNew(t, WithRateLimiter(noLimit(t))).WithArchivesBaseURL(srv.URL)
	index, err := c.IndexArchive(context.Background(),
		"data/320193/000032019324000001")
	require.NoError(t, err)
	assert.Equal(t, "000032019324000001", index.Name())
	assert.Equal(t, "../", index.Parent())
	require.Len(t, index.Items(), 1)
	assert.Equal(t, "ex1.htm", index.Items()[0].Name)
}

func TestClient_GetArchiveBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/320193/doc.htm",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>doc</html>"))
		})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := testNew(t, WithRateLimiter(noLimit(t))).WithArchivesBaseURL(srv.URL)

	body, err := c.GetArchiveBody(context.Background(), "data/320193/doc.htm")
	require.NoError(t, err)
	b, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "<html>doc</html>", string(b))

	_, err = c.GetArchiveBody(context.Background(), "data/320193/missing.htm")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func noLimit(t *testing.T) Limiter {
	t.Helper()
	return limiterFunc(func(context.Context) error { return nil })
}
