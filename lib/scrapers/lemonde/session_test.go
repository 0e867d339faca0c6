package lemonde

import (
	"context"
	"net/url"
	"testing"

	"barman/lib/configutil"
	"barman/lib/fetch"
	"barman/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestLoginAndFetch(t *testing.T) {
	f := newFixture(t)
	session, err := NewSession(f.config(), &testutil.RecordingAPI{})
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	require.NoError(t, session.Login(ctx, testCreds()))
	require.Equal(t, map[string]string{
		"csrf":     "token-123",
		"remember": "1",
		"email":    testEmail,
		"password": testPassword,
	}, f.postedForm())

	markup, err := session.Fetch(ctx, f.site.URL("/article/story_123.html"))
	require.NoError(t, err)
	require.Contains(t, markup, "Premier paragraphe.")
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)
	tel := &testutil.RecordingAPI{}
	session, err := NewSession(f.config(), tel)
	require.NoError(t, err)
	defer session.Close()

	err = session.Login(context.Background(), configutil.Credentials{Email: testEmail, Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidLogin)
	require.False(t, fetch.IsTimeout(err))
	require.Equal(t, 1, tel.Count("warning", report_session_login))
}

func TestLoginTimeout(t *testing.T) {
	f := newFixture(t)
	f.slowLogins.Store(1)
	session, err := NewSession(f.config(), &testutil.RecordingAPI{})
	require.NoError(t, err)
	defer session.Close()

	err = session.Login(context.Background(), testCreds())
	require.ErrorIs(t, err, fetch.ErrTimeout)
}

func TestFetchWithoutLogin(t *testing.T) {
	f := newFixture(t)
	session, err := NewSession(f.config(), &testutil.RecordingAPI{})
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Fetch(context.Background(), f.site.URL("/article/story_123.html"))
	require.ErrorIs(t, err, fetch.ErrStatus)
}

func TestLoginFormFallback(t *testing.T) {
	session := &Session{}
	var err error
	session.loginURL, err = url.Parse("https://secure.test/sfuser/connexion")
	require.NoError(t, err)

	payload, target, err := session.loginForm(`<form><input name="token" value="x"><input name="bare"></form>`)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"token": "x"}, payload)
	require.Equal(t, "https://secure.test/sfuser/connexion", target)

	_, _, err = session.loginForm(`<p>maintenance</p>`)
	require.ErrorIs(t, err, ErrInvalidLogin)
}
