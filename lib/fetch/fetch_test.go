package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"barman/lib/testutil"

	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	markup string
	err    error
}

func (f fakeBrowser) Render(ctx context.Context, url string) (string, error) {
	return f.markup, f.err
}

func newTestClient(t *testing.T, timeout time.Duration) (*Client, *testutil.RecordingAPI) {
	tel := &testutil.RecordingAPI{}
	client, err := NewClient(Options{
		UserAgent: "barman-test",
		Timeout:   timeout,
	}, tel)
	require.NoError(t, err)
	return client, tel
}

func TestStaticFetch(t *testing.T) {
	var userAgent string
	site := testutil.NewSite(t, map[string]http.HandlerFunc{
		"/page": func(w http.ResponseWriter, r *http.Request) {
			userAgent = r.Header.Get("user-agent")
			testutil.HTML("<html><body>ok</body></html>")(w, r)
		},
		"/latin1": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("content-type", "text/html; charset=iso-8859-1")
			// "décembre" in latin-1
			w.Write([]byte("d\xe9cembre"))
		},
		"/broken": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"/slow": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			testutil.HTML("late")(w, r)
		},
	})
	client, tel := newTestClient(t, 100*time.Millisecond)
	ctx := context.Background()

	markup, err := client.Fetch(ctx, site.URL("/page"), false)
	require.NoError(t, err)
	require.Equal(t, "<html><body>ok</body></html>", markup)
	require.Equal(t, "barman-test", userAgent)

	markup, err = client.Fetch(ctx, site.URL("/latin1"), false)
	require.NoError(t, err)
	require.Equal(t, "décembre", markup)

	_, err = client.Fetch(ctx, site.URL("/broken"), false)
	require.ErrorIs(t, err, ErrStatus)
	require.False(t, IsTimeout(err))
	require.Equal(t, 1, tel.Count("broken", report_fetch_static))

	_, err = client.Fetch(ctx, site.URL("/slow"), false)
	require.ErrorIs(t, err, ErrTimeout)
	require.True(t, IsTimeout(err))
}

func TestRenderFetch(t *testing.T) {
	client, tel := newTestClient(t, time.Second)
	ctx := context.Background()

	client.WithBrowser(fakeBrowser{markup: "<html>rendered</html>"})
	markup, err := client.Fetch(ctx, "https://example.com", true)
	require.NoError(t, err)
	require.Equal(t, "<html>rendered</html>", markup)

	client.WithBrowser(fakeBrowser{err: errors.New("tab crashed")})
	markup, err = client.Fetch(ctx, "https://example.com", true)
	require.NoError(t, err)
	require.Empty(t, markup)
	require.Equal(t, 1, tel.Count("warning", report_fetch_render))

	client.WithBrowser(fakeBrowser{err: context.DeadlineExceeded})
	_, err = client.Fetch(ctx, "https://example.com", true)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestIsTimeout(t *testing.T) {
	require.False(t, IsTimeout(nil))
	require.False(t, IsTimeout(errors.New("boom")))
	require.True(t, IsTimeout(ErrTimeout))
	require.True(t, IsTimeout(context.DeadlineExceeded))
	require.False(t, IsTimeout(context.Canceled))
}
