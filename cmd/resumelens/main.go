package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/resumelens/internal/config"
	"github.com/csheth/resumelens/internal/resumeapi"
	"github.com/csheth/resumelens/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (defaults to the user config dir)")
	baseURL := flag.String("base-url", "", "override the backend base URL")
	token := flag.String("token", "", "override the bearer token")
	startDir := flag.String("dir", "", "directory the file picker opens in")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *startDir != "" {
		cfg.StartDir = *startDir
	}
	if cfg.StartDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.StartDir = home
		}
	}

	// The TUI owns stdout, so logs go to a file.
	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		fmt.Println("failed to open log file:", err)
		os.Exit(1)
	}
	defer closeLog()

	api := resumeapi.New(resumeapi.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Logger:  logger,
	})

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			API:      api,
			Logger:   logger,
			StartDir: cfg.StartDir,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func openLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "resumelens", "resumelens.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	logger := zerolog.New(file).With().Timestamp().Logger()
	return logger, func() { _ = file.Close() }, nil
}
