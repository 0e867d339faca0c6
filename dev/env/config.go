package devenv

import "testing"

// LemondeTestConfig drives the tests that hit the real news site.
type LemondeTestConfig struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	ArticleURL string `json:"article_url"`
}

// ReleasesTestConfig drives the tests that hit the real release calendar.
type ReleasesTestConfig struct {
	Platform  string `json:"platform"`
	FetchMode string `json:"fetch_mode"`
}

const (
	LemondeStateFile  = "lemonde.json5"
	ReleasesStateFile = "releases.json5"
)

// RequireStateConfig loads a dev state config or skips the test when it
// has not been set up.
func RequireStateConfig[T any](t testing.TB, path string) T {
	t.Helper()
	if testing.Short() {
		t.Skip("live test skipped in short mode")
	}
	cfg, err := GetStateConfig[T](path)
	if err != nil {
		t.Skipf("live test skipped, no dev state config %s: %v", path, err)
	}
	return cfg
}
