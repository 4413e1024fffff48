package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/config"
	"github.com/chaz8081/glasslink/internal/session"
	"github.com/chaz8081/glasslink/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource so its defers have executed before main exits.
func run(args []string) error {
	// CLI flags
	fs := flag.NewFlagSet("glasslink", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file (default: ~/.config/glasslink/config.yaml)")
	initConfig := fs.Bool("init", false, "write the default config file and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *initConfig {
		path, err := config.WriteDefault()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if path == "" {
			fmt.Println("Config already exists at", config.DefaultConfigPath())
			return nil
		}
		fmt.Println("Wrote default config to", path)
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	provider := ble.NewTinygoProvider(ble.ProviderOptions{
		ConnectTimeout: cfg.Handshake.ConnectTimeout,
		Heartbeat: ble.HeartbeatOptions{
			Interval: cfg.Heartbeat.Interval,
			Timeout:  cfg.Heartbeat.Timeout,
		},
	})
	if err := provider.Enable(); err != nil {
		return fmt.Errorf("failed to enable Bluetooth: %w\n\nOn Linux, check that bluetoothd is running and the adapter is not blocked (rfkill list)", err)
	}
	defer provider.Close()

	power, err := ble.NewSystemPower(cfg.Adapter.ID)
	if err != nil {
		slog.Warn("[BLE] adapter power state unavailable, assuming on", "adapter", cfg.Adapter.ID, "error", err)
		power = nil
	}

	sess := session.New(provider, provider, session.Options{
		Power:            power,
		HandshakeTimeout: cfg.Handshake.Timeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	p := tea.NewProgram(tui.New(sess), tea.WithAltScreen())
	stop := tui.Forward(sess.Status(), p.Send)

	_, runErr := p.Run()

	stop()
	cancel()
	<-done

	if runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	// Try default config path
	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return cfg, nil
	}

	// No config file, use defaults
	return config.Default(), nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
