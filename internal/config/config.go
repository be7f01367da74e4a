package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"menubook/internal/eventbus"
)

// LocalFileName is looked up in the working directory before the user config dir
const LocalFileName = ".menubook.toml"

// Config represents the application configuration
type Config struct {
	Version int           `mapstructure:"version" toml:"version"`
	Menu    MenuConfig    `mapstructure:"menu" toml:"menu"`
	Gesture GestureConfig `mapstructure:"gesture" toml:"gesture"`
	Refresh RefreshConfig `mapstructure:"refresh" toml:"refresh"`
	Engine  EngineConfig  `mapstructure:"engine" toml:"engine"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

// MenuConfig says where the menu content comes from
type MenuConfig struct {
	Source string `mapstructure:"source" toml:"source"` // file path or http(s) URL
}

// GestureConfig holds the arbitration constants, in terminal cells
type GestureConfig struct {
	TopBand       int `mapstructure:"top_band" toml:"top_band"`
	Threshold     int `mapstructure:"threshold" toml:"threshold"`
	DeadZone      int `mapstructure:"dead_zone" toml:"dead_zone"`
	SwipeDistance int `mapstructure:"swipe_distance" toml:"swipe_distance"`
}

// RefreshConfig holds pull-to-refresh settings
type RefreshConfig struct {
	Delay time.Duration `mapstructure:"delay" toml:"delay"`
}

// EngineConfig holds page-turn engine settings
type EngineConfig struct {
	FlippingTime      time.Duration `mapstructure:"flipping_time" toml:"flipping_time"`
	FrameInterval     time.Duration `mapstructure:"frame_interval" toml:"frame_interval"`
	LandscapeMinWidth int           `mapstructure:"landscape_min_width" toml:"landscape_min_width"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file" toml:"file"`
	Level string `mapstructure:"level" toml:"level"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus  eventbus.EventBus
	dirs []string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{dirs: searchDirs()}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load finds the config file in the search dirs, applies MENUBOOK_* env
// overrides and falls back to defaults when no file exists
func (cs *configService) Load() (*Config, error) {
	v := cs.newViper()
	for _, dir := range cs.dirs {
		path := filepath.Join(dir, fileNameFor(dir))
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			break
		}
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: v.ConfigFileUsed()})
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	v := cs.newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: path})
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(fileConfigFrom(config))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}
	return nil
}

func (cs *configService) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("MENUBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register every key so env overrides reach Unmarshal
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("menu.source", d.Menu.Source)
	v.SetDefault("gesture.top_band", d.Gesture.TopBand)
	v.SetDefault("gesture.threshold", d.Gesture.Threshold)
	v.SetDefault("gesture.dead_zone", d.Gesture.DeadZone)
	v.SetDefault("gesture.swipe_distance", d.Gesture.SwipeDistance)
	v.SetDefault("refresh.delay", d.Refresh.Delay)
	v.SetDefault("engine.flipping_time", d.Engine.FlippingTime)
	v.SetDefault("engine.frame_interval", d.Engine.FrameInterval)
	v.SetDefault("engine.landscape_min_width", d.Engine.LandscapeMinWidth)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the gesture and engine code cannot work with
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Menu.Source) == "" {
		errs = append(errs, errors.New("menu.source must not be empty"))
	}
	if c.Gesture.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("gesture.threshold must be positive, got %d", c.Gesture.Threshold))
	}
	if c.Gesture.DeadZone < 0 || c.Gesture.DeadZone >= c.Gesture.Threshold {
		errs = append(errs, fmt.Errorf("gesture.dead_zone must be in [0, threshold), got %d", c.Gesture.DeadZone))
	}
	if c.Gesture.TopBand <= 0 {
		errs = append(errs, fmt.Errorf("gesture.top_band must be positive, got %d", c.Gesture.TopBand))
	}
	if c.Gesture.SwipeDistance <= 0 {
		errs = append(errs, fmt.Errorf("gesture.swipe_distance must be positive, got %d", c.Gesture.SwipeDistance))
	}
	if c.Refresh.Delay < 0 {
		errs = append(errs, fmt.Errorf("refresh.delay must not be negative, got %s", c.Refresh.Delay))
	}
	if c.Engine.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("engine.frame_interval must be positive, got %s", c.Engine.FrameInterval))
	}
	if c.Engine.FlippingTime < 0 {
		errs = append(errs, fmt.Errorf("engine.flipping_time must not be negative, got %s", c.Engine.FlippingTime))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// fileConfig is the on-disk shape; durations are written as strings so the
// file round-trips through viper
type fileConfig struct {
	Version int           `toml:"version"`
	Menu    MenuConfig    `toml:"menu"`
	Gesture GestureConfig `toml:"gesture"`
	Refresh struct {
		Delay string `toml:"delay"`
	} `toml:"refresh"`
	Engine struct {
		FlippingTime      string `toml:"flipping_time"`
		FrameInterval     string `toml:"frame_interval"`
		LandscapeMinWidth int    `toml:"landscape_min_width"`
	} `toml:"engine"`
	Logging LoggingConfig `toml:"logging"`
}

func fileConfigFrom(c *Config) fileConfig {
	var f fileConfig
	f.Version = c.Version
	f.Menu = c.Menu
	f.Gesture = c.Gesture
	f.Refresh.Delay = c.Refresh.Delay.String()
	f.Engine.FlippingTime = c.Engine.FlippingTime.String()
	f.Engine.FrameInterval = c.Engine.FrameInterval.String()
	f.Engine.LandscapeMinWidth = c.Engine.LandscapeMinWidth
	f.Logging = c.Logging
	return f
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Menu:    MenuConfig{Source: filepath.Join("data", "menu.json")},
		Gesture: GestureConfig{
			TopBand:       5,
			Threshold:     3,
			DeadZone:      0,
			SwipeDistance: 6,
		},
		Refresh: RefreshConfig{Delay: 120 * time.Millisecond},
		Engine: EngineConfig{
			FlippingTime:      900 * time.Millisecond,
			FrameInterval:     16 * time.Millisecond,
			LandscapeMinWidth: 110,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// searchDirs returns the working directory and the user config directory
func searchDirs() []string {
	dirs := []string{"."}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, "menubook"))
	}
	return dirs
}

func fileNameFor(dir string) string {
	if dir == "." {
		return LocalFileName
	}
	return "config.toml"
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "menubook", "menubook.log")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "menubook.log"
		}
		return filepath.Join(home, ".local", "share", "menubook", "menubook.log")
	}
}
