package environment

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

// Environment holds raw settings loaded from the OS environment.
type Environment struct {
	Host                 string `env:"HOST,default=0.0.0.0"`
	Port                 int    `env:"PORT,default=8080"`
	StorageDir           string `env:"STORAGE_DIR"`
	UploadSecret         string `env:"UPLOAD_SECRET"`
	TTLMinutes           int    `env:"FILE_TTL_MINUTES,default=60"`
	SweepIntervalMinutes int    `env:"SWEEP_INTERVAL_MINUTES,default=5"`
	MaxUploadSize        string `env:"MAX_UPLOAD_SIZE,default=500MiB"`
	PublicBaseURL        string `env:"PUBLIC_BASE_URL"`
	TrustedProxies       string `env:"TRUSTED_PROXIES"`
	Extras               env.EnvSet
}

// Config is the immutable runtime configuration derived from an
// Environment. It is built once at startup and passed into every
// component; nothing reads ambient globals after that.
type Config struct {
	ListenAddr     string
	StorageDir     string
	UploadSecret   string
	TTL            time.Duration
	SweepInterval  time.Duration
	MaxUploadBytes int64
	PublicBaseURL  string
	TrustedProxies []string
}

// NewEnvironment loads the raw environment, honouring a .env file in
// the working directory when present.
func NewEnvironment() (*Environment, error) {
	// Missing .env is not an error; explicit env vars win either way.
	_ = godotenv.Load()

	environment := &Environment{}
	extras, err := env.UnmarshalFromEnviron(environment)
	if err != nil {
		return nil, err
	}
	environment.Extras = extras

	return environment, nil
}

// NewConfig validates an Environment and derives the runtime Config.
func NewConfig(environ *Environment) (*Config, error) {
	if environ.Port <= 0 || environ.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", environ.Port)
	}

	storageDir := environ.StorageDir
	if storageDir == "" {
		storageDir = filepath.Join(xdg.DataHome, "mediadrop", "uploads")
	}

	maxBytes, err := humanize.ParseBytes(environ.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE %q: %w", environ.MaxUploadSize, err)
	}

	if environ.SweepIntervalMinutes <= 0 {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL_MINUTES %d", environ.SweepIntervalMinutes)
	}

	var trustedProxies []string
	for _, p := range strings.Split(environ.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			trustedProxies = append(trustedProxies, p)
		}
	}

	return &Config{
		ListenAddr:     net.JoinHostPort(environ.Host, strconv.Itoa(environ.Port)),
		StorageDir:     storageDir,
		UploadSecret:   environ.UploadSecret,
		TTL:            time.Duration(environ.TTLMinutes) * time.Minute,
		SweepInterval:  time.Duration(environ.SweepIntervalMinutes) * time.Minute,
		MaxUploadBytes: int64(maxBytes),
		PublicBaseURL:  strings.TrimRight(environ.PublicBaseURL, "/"),
		TrustedProxies: trustedProxies,
	}, nil
}

// SweepEnabled reports whether the retention sweeper should run at all.
func (c *Config) SweepEnabled() bool {
	return c.TTL > 0
}
