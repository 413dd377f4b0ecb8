package awesome

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config describes where the runtime's resources live and how startup
// routing behaves.
type Config struct {
	// BasePath prefixes every bootstrap resource: a directory, an http(s)
	// URL or an s3://bucket/prefix URL.
	BasePath string `env:"BASE_PATH"`

	// Libraries are loaded as scripts before anything else. Relative
	// entries are resolved against BasePath.
	Libraries []string `env:"LIBRARIES" envSeparator:","`

	// Extension of manifest and language documents.
	Extension string `env:"EXTENSION" envDefault:"yaml"`

	// ClientLanguage is the client's Accept-Language style preference.
	ClientLanguage string `env:"CLIENT_LANGUAGE"`

	// Fragment is the URL fragment the application was opened with.
	Fragment string `env:"FRAGMENT"`

	// StartScreen is the document-level default start screen.
	StartScreen string `env:"START_SCREEN"`

	RouteAction string `env:"ROUTE_ACTION" envDefault:"update-screen"`
	StartAction string `env:"START_ACTION" envDefault:"show-start-screen"`

	SettleDelay   time.Duration `env:"SETTLE_DELAY" envDefault:"10ms"`
	LoadTimeout   time.Duration `env:"LOAD_TIMEOUT"`
	MaxConcurrent int           `env:"MAX_CONCURRENT" envDefault:"8"`
}

// LoadConfig reads Config from AWESOME_* environment variables.
func LoadConfig() (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Prefix: "AWESOME_"})
}

func (c *Config) applyDefaults() {
	if c.Extension == "" {
		c.Extension = "yaml"
	}
	if c.RouteAction == "" {
		c.RouteAction = "update-screen"
	}
	if c.StartAction == "" {
		c.StartAction = "show-start-screen"
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 10 * time.Millisecond
	}
}
