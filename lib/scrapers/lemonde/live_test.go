package lemonde

import (
	"context"
	"testing"

	devenv "barman/dev/env"
	"barman/lib/configutil"
	"barman/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestLiveLoginAndFetch(t *testing.T) {
	live := devenv.RequireStateConfig[devenv.LemondeTestConfig](t, devenv.LemondeStateFile)
	if live.Email == "" {
		t.Skip("no credentials in dev state config")
	}

	cfg := configutil.Default()
	session, err := NewSession(cfg, telemetry.SlogAPI{})
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	err = session.Login(ctx, configutil.Credentials{Email: live.Email, Password: live.Password})
	require.NoError(t, err)

	markup, err := session.Fetch(ctx, live.ArticleURL)
	require.NoError(t, err)

	content, err := ExtractContent(markup, cfg.Lemonde.ArticleSelector, live.ArticleURL)
	require.NoError(t, err)
	sanitized, err := NewSanitizer(cfg.Lemonde, telemetry.SlogAPI{}).Sanitize(content)
	require.NoError(t, err)
	require.NotEmpty(t, sanitized)
}
