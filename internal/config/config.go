package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "LABWATCH"

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Monitoring struct {
	Port             int    `mapstructure:"port"`
	URLPrefix        string `mapstructure:"url_prefix"`
	MetricEnabled    bool   `mapstructure:"metric_enabled"`
	ProfilingEnabled bool   `mapstructure:"profiling_enabled"`
}

func (m Monitoring) Enabled() bool {
	return m.Port > 0 && (m.MetricEnabled || m.ProfilingEnabled)
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Secret     string        `mapstructure:"secret"`

	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`

	// SessionRetention bounds how long completed sessions stay in history. Zero keeps them.
	SessionRetention time.Duration `mapstructure:"session_retention"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	ICEServers []ICEServer `mapstructure:"ice_servers"`
	Monitoring Monitoring  `mapstructure:"monitoring"`

	v      *viper.Viper
	loaded bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 7401)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "")
	v.SetDefault("rate_limit", 200)
	v.SetDefault("rate_interval", "1s")
	v.SetDefault("session_retention", "720h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
	v.SetDefault("monitoring.port", 0)
	v.SetDefault("monitoring.url_prefix", "")
	v.SetDefault("monitoring.metric_enabled", true)
	v.SetDefault("monitoring.profiling_enabled", false)
}

// Load resolves the configuration from, in increasing priority: defaults,
// the YAML file, LABWATCH_* environment variables and command line flags.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg(".env not loaded")
	}

	fs := pflag.NewFlagSet("labwatch", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.Int("port", 7401, "HTTP listen port")
	fs.String("mode", "release", "gin mode: debug or release")
	fs.String("log-level", "info", "zerolog level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	for key, flag := range map[string]string{"port": "port", "mode": "mode", "log_level": "log-level"} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit, _ := fs.GetString("config")
	fileName := explicit
	if fileName == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(fileName)

	loaded := true
	if err := v.ReadInConfig(); err != nil {
		if explicit != "" {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		loaded = false
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.v = v
	cfg.loaded = loaded

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Msg("config ready")
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, errors.New("ping_period must be positive"))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be positive"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if c.RateLimit > 0 && c.RateInterval <= 0 {
		errs = append(errs, errors.New("rate_interval must be positive when rate_limit is set"))
	}
	if c.SessionRetention < 0 {
		errs = append(errs, errors.New("session_retention must not be negative"))
	}
	if c.Monitoring.Port < 0 || c.Monitoring.Port > 65535 {
		errs = append(errs, fmt.Errorf("monitoring.port %d out of range", c.Monitoring.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// PongWait is how long a connection may stay silent; pings go out every PingPeriod.
func (c *Config) PongWait() time.Duration {
	return c.PingPeriod * 10 / 9
}

func (c *Config) WebRTCICEServers() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		srv := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			srv.Credential = s.Credential
		}
		out = append(out, srv)
	}
	return out
}

// Watch calls fn with the re-read configuration every time the config file
// changes on disk. Without a loaded file it does nothing.
func (c *Config) Watch(fn func(*Config)) {
	if c.v == nil || !c.loaded {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			log.Error().Err(err).Str("module", "config").Str("file", e.Name).Msg("reload")
			return
		}
		log.Info().Str("module", "config").Str("file", e.Name).Str("op", e.Op.String()).Msg("config changed")
		fn(next)
	})
	c.v.WatchConfig()
}
