package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "TALLY"

	KeyStorageDriver = "storage.driver"
	KeyStoragePath   = "storage.path"
	KeyStorageStrict = "storage.strict"
	KeyHoldDuration  = "hold.duration"
	KeyLogFile       = "log.file"
	KeyLogLevel      = "log.level"
	KeyTimezone      = "display.timezone"
	KeyDesktop       = "notifications.desktop"
)

type Config struct {
	StorageDriver        string
	StoragePath          string
	StrictDecoding       bool
	HoldDuration         time.Duration
	LogFile              string
	LogLevel             string
	Timezone             string
	DesktopNotifications bool
}

func Default() Config {
	return Config{
		StorageDriver: "sqlite",
		StoragePath:   DefaultStoragePath("sqlite"),
		HoldDuration:  3000 * time.Millisecond,
		LogLevel:      "info",
		Timezone:      "Local",
	}
}

// DefaultStoragePath is where driver keeps its data unless storage.path is set.
// The file and sqlite drivers never share a default.
func DefaultStoragePath(driver string) string {
	name := "tally.db"
	if driver == "file" {
		name = "tally.json"
	}
	return filepath.Join(dataHome(), "tally", name)
}

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"driver":   KeyStorageDriver,
	"db":       KeyStoragePath,
	"hold":     KeyHoldDuration,
	"log-file": KeyLogFile,
}

// Load layers defaults, the yaml file, TALLY_* environment variables and any
// flags that were set explicitly. An empty file means the default location,
// which may be absent.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault(KeyStorageDriver, def.StorageDriver)
	v.SetDefault(KeyStorageStrict, def.StrictDecoding)
	v.SetDefault(KeyHoldDuration, def.HoldDuration)
	v.SetDefault(KeyLogFile, def.LogFile)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyTimezone, def.Timezone)
	v.SetDefault(KeyDesktop, def.DesktopNotifications)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := strings.TrimSpace(file) != ""
	if !explicit {
		file = DefaultFile()
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageDriver)))
	path := strings.TrimSpace(v.GetString(KeyStoragePath))
	if !v.IsSet(KeyStoragePath) {
		path = DefaultStoragePath(driver)
	}
	cfg := Config{
		StorageDriver:        driver,
		StoragePath:          path,
		StrictDecoding:       v.GetBool(KeyStorageStrict),
		HoldDuration:         v.GetDuration(KeyHoldDuration),
		LogFile:              strings.TrimSpace(v.GetString(KeyLogFile)),
		LogLevel:             v.GetString(KeyLogLevel),
		Timezone:             strings.TrimSpace(v.GetString(KeyTimezone)),
		DesktopNotifications: v.GetBool(KeyDesktop),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver != "memory" && c.StoragePath == "" {
		return errors.New("config: storage path is required")
	}
	if c.HoldDuration <= 0 {
		return fmt.Errorf("config: hold duration must be positive, got %s", c.HoldDuration)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func DefaultFile() string {
	return filepath.Join(configHome(), "tally", "tally.yml")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming")
	}
	return filepath.Join(home, ".config")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(home, ".local", "share")
}
