// Package config loads wormdb settings from defaults, an optional config
// file, WORMDB_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. WORMDB_BIND_LIMIT.
const EnvPrefix = "WORMDB"

// Config is the resolved configuration.
type Config struct {
	DB           string        `mapstructure:"db" validate:"required"`
	Driver       string        `mapstructure:"driver" validate:"oneof=sqlite3 sqlite"`
	BindLimit    int           `mapstructure:"bind_limit" validate:"min=2"`
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"min=1"`
	BusyTimeout  time.Duration `mapstructure:"busy_timeout" validate:"min=0"`
	LogLevel     string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string        `mapstructure:"log_format" validate:"oneof=json console"`
	Addr         string        `mapstructure:"addr" validate:"required"`
}

var defaults = map[string]any{
	"db":             "wormdb.sqlite",
	"driver":         "sqlite3",
	"bind_limit":     32766,
	"max_open_conns": 1,
	"busy_timeout":   5 * time.Second,
	"log_level":      "info",
	"log_format":     "console",
	"addr":           ":8080",
}

var (
	configValidator *validator.Validate
	trans           ut.Translator
)

func init() {
	configValidator = validator.New()
	configValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(configValidator, trans)
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag whose name matches a config key, with dashes
// read as underscores ("bind-limit" sets bind_limit).
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(flag *pflag.Flag) {
		key := strings.ReplaceAll(flag.Name, "-", "_")
		if _, ok := defaults[key]; !ok {
			return
		}
		if err := v.BindPFlag(key, flag); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Load reads file (if non-empty) into v and returns the validated config.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
