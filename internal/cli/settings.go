package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/goluno/client"
)

// envPrefix namespaces every flag's environment variable, e.g.
// GOLUNO_MAX_RATE for --max-rate.
const envPrefix = "GOLUNO"

const defaultEnvFile = ".env"

// settings is the decoded command line configuration. Flags take
// precedence over the environment, which takes precedence over defaults.
type settings struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Pair     string        `mapstructure:"pair"`
	Scheme   string        `mapstructure:"scheme"`
	CAFile   string        `mapstructure:"ca-file"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxRate  float64       `mapstructure:"max-rate"`
	MaxBurst int           `mapstructure:"max-burst"`
	Key      string        `mapstructure:"key"`
	Secret   string        `mapstructure:"secret"`
	EnvFile  string        `mapstructure:"env-file"`
	Verbose  bool          `mapstructure:"verbose"`
	NoColor  bool          `mapstructure:"no-color"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The exchange's own tooling names the credentials BITX_*.
	_ = v.BindEnv("key", envPrefix+"_KEY", "BITX_KEY")
	_ = v.BindEnv("secret", envPrefix+"_SECRET", "BITX_SECRET")

	return v
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	def := client.DefaultConfig()

	f := cmd.PersistentFlags()
	f.String("host", def.Host, "API host")
	f.Int("port", def.Port, "API port")
	f.String("pair", def.Pair, "default currency pair")
	f.String("scheme", "https", "URL scheme")
	f.String("ca-file", "", "PEM bundle used to verify the API host")
	f.Duration("timeout", def.Timeout, "per request timeout")
	f.Float64("max-rate", def.MaxRate, "sustained calls per second, 0 disables rate limiting")
	f.Int("max-burst", def.MaxBurst, "calls admitted per burst window, 0 disables rate limiting")
	f.String("env-file", defaultEnvFile, "file of KEY=value pairs loaded into the environment")
	f.BoolP("verbose", "v", false, "log at debug level")
	f.Bool("no-color", false, "disable coloured output")

	_ = f.MarkHidden("scheme")
	_ = v.BindPFlags(f)
}

// load reads the env file and decodes the merged configuration.
func load(v *viper.Viper) (settings, error) {
	if err := loadEnvFile(v.GetString("env-file")); err != nil {
		return settings{}, err
	}

	var cfg settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return settings{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := dec.Decode(v.AllSettings()); err != nil {
		return settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads path into the environment without overriding
// variables that are already set. A missing default file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == defaultEnvFile {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	return nil
}

func (s settings) options(log *slog.Logger) []client.Option {
	opts := []client.Option{
		client.WithHost(s.Host),
		client.WithPort(s.Port),
		client.WithPair(strings.ToUpper(s.Pair)),
		client.WithTimeout(s.Timeout),
		client.WithRateLimit(s.MaxRate, s.MaxBurst),
		client.WithUserAgent("goluno-cli/" + client.Version),
		client.WithLogger(log),
	}

	if s.Scheme != "" {
		opts = append(opts, client.WithScheme(s.Scheme))
	}
	if s.CAFile != "" {
		opts = append(opts, client.WithCAFile(s.CAFile))
	}
	if s.Key != "" && s.Secret != "" {
		opts = append(opts, client.WithCredentials(s.Key, s.Secret))
	}

	return opts
}
