package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/renato0307/vigia/internal/config"
	"github.com/renato0307/vigia/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Serve   ServeCmd   `cmd:"" help:"Run the notification daemon (default)" default:"1"`
	Hook    HookCmd    `cmd:"hook" help:"Forward a hook event from stdin to the daemon" hidden:""`
	History HistoryCmd `cmd:"history" help:"Show completed-task history"`
	Status  StatusCmd  `cmd:"status" help:"Show active agent counts for status bars"`
	Setup   SetupCmd   `cmd:"setup" help:"Install vigia hooks into Claude Code settings"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	if c.settings != nil {
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("VIGIA_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("VIGIA_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Export AFTER initialization so child processes inherit debug settings
	// and append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("VIGIA_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("VIGIA_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("VIGIA_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	c.Container = NewContainer(c.settings)
	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
