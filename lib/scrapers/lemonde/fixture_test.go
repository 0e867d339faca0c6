package lemonde

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"barman/lib/configutil"
	"barman/lib/testutil"
)

const (
	testEmail    = "reader@example.com"
	testPassword = "hunter2"
	sessionValue = "authenticated"
)

const loginPage = `<html><body>
<form method="get" action="/search"><input name="q" value=""></form>
<form method="post" action="/login/check">
	<input type="hidden" name="csrf" value="token-123">
	<input type="hidden" name="remember" value="1">
	<input type="email" name="email">
	<input type="password" name="password">
	<input type="submit">
</form>
</body></html>`

const articlePage = `<html><body>
<main>
	<section class="article--content">
		<ul class="breadcrumb"><li>Société</li></ul>
		<h1>Un titre</h1>
		<div class="meta__social">share</div>
		<p>Premier paragraphe.</p>
		<img data-srcset="https://img.test/a-320.jpg 320w, https://img.test/a-664.jpg 664w">
		<div class="multimedia-embed"><iframe src="https://video.test/embed"></iframe></div>
		<section class="inread">ad</section>
	</section>
</main>
</body></html>`

type fixture struct {
	site *testutil.Site
	// number of login page requests that should hang past the timeout
	slowLogins atomic.Int32

	mutex  sync.Mutex
	posted map[string]string
}

func (f *fixture) postedForm() map[string]string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.posted
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{}
	f.site = testutil.NewSite(t, map[string]http.HandlerFunc{
		"/login": func(w http.ResponseWriter, r *http.Request) {
			if f.slowLogins.Add(-1) >= 0 {
				time.Sleep(400 * time.Millisecond)
			}
			testutil.HTML(loginPage)(w, r)
		},
		"/login/check": func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			posted := map[string]string{}
			for k := range r.PostForm {
				posted[k] = r.PostForm.Get(k)
			}
			f.mutex.Lock()
			f.posted = posted
			f.mutex.Unlock()
			if r.PostForm.Get("password") != testPassword || r.PostForm.Get("csrf") != "token-123" {
				testutil.HTML("<p>Identifiants incorrects</p>")(w, r)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: sessionValue, Path: "/"})
			testutil.HTML(fmt.Sprintf("<p>Bonjour %s</p>", r.PostForm.Get("email")))(w, r)
		},
		"/article/story_123.html": func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != sessionValue {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			testutil.HTML(articlePage)(w, r)
		},
	})
	return f
}

func (f *fixture) config() configutil.Config {
	cfg := configutil.Default()
	cfg.Lemonde.LoginURL = f.site.URL("/login")
	cfg.Lemonde.PacingSeconds = [2]float64{0, 0}
	cfg.Fetch.TimeoutSeconds = 0.2
	cfg.Fetch.RequestsPerSecond = 0
	return cfg
}

func testCreds() configutil.Credentials {
	return configutil.Credentials{Email: testEmail, Password: testPassword}
}
