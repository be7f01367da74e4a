package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"menubook/internal/config"
	"menubook/internal/eventbus"
	"menubook/internal/logging"
	"menubook/internal/menu"
	"menubook/internal/ui"
)

func main() {
	// Parse command line arguments
	var source, configPath string
	var writeConfig bool
	flag.StringVar(&source, "menu", "", "Menu source: file path or http(s) URL")
	flag.StringVar(&source, "m", "", "Menu source (shorthand)")
	flag.StringVar(&configPath, "config", "", "Path to a config file")
	flag.BoolVar(&writeConfig, "write-config", false, "Write the effective config to "+config.LocalFileName+" and exit")
	flag.Parse()

	// Remaining argument is the menu source
	if source == "" && flag.NArg() > 0 {
		source = flag.Arg(0)
	}

	cfg, cfgErr := loadConfig(configPath)
	if source != "" {
		cfg.Menu.Source = source
	}

	// Set up logging
	logger, closer, err := logging.Setup(&cfg.Logging)
	if err != nil {
		logger = logging.NullLogger()
		closer = io.NopCloser(nil)
	}
	defer closer.Close()
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("using default config", "error", cfgErr)
	}

	bus := eventbus.New(logger)
	defer logging.Attach(bus, logger)()

	if writeConfig {
		path, err := filepath.Abs(config.LocalFileName)
		if err == nil {
			err = config.NewConfigServiceWithBus(bus).SaveToPath(cfg, path)
		}
		if err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	logger.Info("starting", "source", cfg.Menu.Source)
	model := ui.NewModel(cfg, bus, menu.NewProvider(cfg.Menu.Source), logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.SetProgram(p)

	// Run the UI
	if _, err := p.Run(); err != nil {
		logger.Error("program failed", "error", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exited normally")
}

// loadConfig reads the explicit path when given, otherwise the search dirs.
// Errors fall back to defaults so the menu still opens.
func loadConfig(path string) (*config.Config, error) {
	svc := config.NewConfigService()
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = svc.LoadFromPath(path)
	} else {
		cfg, err = svc.Load()
	}
	if err != nil {
		return config.DefaultConfig(), err
	}
	return cfg, nil
}
