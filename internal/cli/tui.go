package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/doist/internal/app"
	"github.com/dori/doist/internal/config"
	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/ui"
	"github.com/dori/doist/internal/ui/theme"
)

func runTUI(opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, app.Options{Exclusive: true})
	if err != nil {
		return err
	}
	defer application.Close()

	// The alternate screen owns the terminal; logs go to a file
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)
	defer logger.SetOutput(os.Stderr)

	if t, ok := theme.ByName(cfg.Theme); ok {
		theme.SetTheme(t)
	} else if cfg.Theme != "" {
		logger.Warn(context.Background(), "unknown theme, using default", "theme", cfg.Theme)
	}

	logger.Info(context.Background(), "starting tui",
		"data_dir", cfg.DataDir, "notifications", application.Notifier.IsEnabled())

	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
