package configutil

import (
	"errors"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"

// Config is the process-wide configuration. It is built once at startup and
// handed by value to each component constructor.
type Config struct {
	Fetch    FetchConfig    `json:"fetch"`
	Retry    RetryConfig    `json:"retry"`
	Render   RenderConfig   `json:"render"`
	Lemonde  LemondeConfig  `json:"lemonde"`
	Releases ReleasesConfig `json:"releases"`
	Mail     MailConfig     `json:"mail"`
}

type FetchConfig struct {
	UserAgent            string  `json:"user_agent"`
	TimeoutSeconds       float64 `json:"timeout_seconds"`
	RequestsPerSecond    float64 `json:"requests_per_second"`
	RenderSettleSeconds  float64 `json:"render_settle_seconds"`
	RenderTimeoutSeconds float64 `json:"render_timeout_seconds"`
	ChromePath           string  `json:"chrome_path"`
	// when set, every http exchange is written to this directory
	DebugDumpDir string `json:"debug_dump_dir"`
}

type RetryConfig struct {
	Tries         int        `json:"tries"`
	DelaySeconds  float64    `json:"delay_seconds"`
	Backoff       float64    `json:"backoff"`
	JitterSeconds [2]float64 `json:"jitter_seconds"`
	// 0 means uncapped
	MaxDelaySeconds float64 `json:"max_delay_seconds"`
}

type RenderConfig struct {
	OutputDir  string `json:"output_dir"`
	ChromePath string `json:"chrome_path"`
}

type LemondeConfig struct {
	LoginURL          string     `json:"login_url"`
	ArticleSelector   string     `json:"article_selector"`
	BloatSelectors    []string   `json:"bloat_selectors"`
	FallbackSelectors []string   `json:"fallback_selectors"`
	SrcsetMarkers     []string   `json:"srcset_markers"`
	PacingSeconds     [2]float64 `json:"pacing_seconds"`
}

type ReleasesConfig struct {
	BaseURL string `json:"base_url"`
	// "render" drives a headless browser, "static" issues plain GETs
	FetchMode string `json:"fetch_mode"`
}

type MailConfig struct {
	Server string `json:"server"`
	Port   int    `json:"port"`
	From   string `json:"from"`
}

func Default() Config {
	return Config{
		Fetch: FetchConfig{
			UserAgent:            DefaultUserAgent,
			TimeoutSeconds:       6,
			RequestsPerSecond:    2,
			RenderSettleSeconds:  10,
			RenderTimeoutSeconds: 50,
		},
		Retry: RetryConfig{
			Tries:         3,
			DelaySeconds:  2,
			Backoff:       1.2,
			JitterSeconds: [2]float64{0, 1},
		},
		Render: RenderConfig{
			OutputDir: ".",
		},
		Lemonde: LemondeConfig{
			LoginURL:        "https://secure.lemonde.fr/sfuser/connexion",
			ArticleSelector: "main > .article--content",
			BloatSelectors: []string{
				".meta__social",
				"ul.breadcrumb",
				"section.article__reactions",
				"section.friend",
				"section.article__siblings",
				"aside.aside__iso.old__aside",
				"section.inread",
			},
			FallbackSelectors: []string{"div.multimedia-embed"},
			SrcsetMarkers:     []string{"664w", "1x"},
			PacingSeconds:     [2]float64{2, 3},
		},
		Releases: ReleasesConfig{
			BaseURL:   "https://www.jeuxvideo.com",
			FetchMode: "render",
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

// Load returns Default() overridden by the config file at path and its
// local override. Only keys present in a file change, so a file may set a
// value to zero, for example requests_per_second: 0 to disable the rate
// limiter. When path is empty, barman.json5 is searched for from the cwd
// upwards and its absence is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		found, err := FindRecursively("barman.json5")
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		if err != nil {
			return cfg, err
		}
		path = found
	}

	err := ReadInto(path, &cfg)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Seconds converts a config value in seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Credentials for the protected news site, they are opaque to the pipeline.
type Credentials struct {
	Email    string `envconfig:"LEMONDE_EMAIL" required:"true"`
	Password string `envconfig:"LEMONDE_PASSWD" required:"true"`
}

func LoadCredentials() (Credentials, error) {
	var creds Credentials
	err := envconfig.Process("", &creds)
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

type MailSecrets struct {
	Username string `envconfig:"BARMAN_SMTP_USERNAME"`
	Password string `envconfig:"BARMAN_SMTP_PASSWORD"`
}

func LoadMailSecrets() (MailSecrets, error) {
	var secrets MailSecrets
	err := envconfig.Process("", &secrets)
	return secrets, err
}
