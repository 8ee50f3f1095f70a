package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/salary-ledger/internal/common"
	"github.com/Veraticus/salary-ledger/internal/currency"
	"github.com/Veraticus/salary-ledger/internal/tui/themes"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyLogFile        = "logging.file"
	KeyCurrencyLocale = "currency.locale"
	KeyCurrencyCode   = "currency.code"
	KeyTheme          = "ui.theme"
)

// Settings is the resolved application configuration.
type Settings struct {
	Logging  LoggingSettings
	Currency CurrencySettings
	UI       UISettings
}

// LoggingSettings controls the slog handler.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// CurrencySettings fixes the locale and currency of the balance display.
type CurrencySettings struct {
	Locale string
	Code   string
}

// UISettings controls the interactive front end.
type UISettings struct {
	Theme string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyCurrencyLocale, currency.DefaultLocale)
	v.SetDefault(KeyCurrencyCode, "")
	v.SetDefault(KeyTheme, "default")
}

// Load reads settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Logging: LoggingSettings{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   ExpandPath(v.GetString(KeyLogFile)),
		},
		Currency: CurrencySettings{
			Locale: v.GetString(KeyCurrencyLocale),
			Code:   v.GetString(KeyCurrencyCode),
		},
		UI: UISettings{
			Theme: v.GetString(KeyTheme),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (s Settings) Validate() error {
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}

	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, s.Logging.Format)
	}

	if _, err := s.Formatter(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	if _, ok := themes.Lookup(s.UI.Theme); !ok && s.UI.Theme != "" {
		return fmt.Errorf("%w: theme %q (known: %s)", common.ErrInvalidConfig,
			s.UI.Theme, strings.Join(themes.Names(), ", "))
	}

	return nil
}

// Formatter builds the currency formatter described by the settings.
func (s Settings) Formatter() (*currency.Formatter, error) {
	return currency.New(s.Currency.Locale, s.Currency.Code)
}
