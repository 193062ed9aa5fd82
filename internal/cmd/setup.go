package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/renato0307/vigia/internal/logging"
)

// hookedEvents are the Claude Code hooks the daemon consumes
var hookedEvents = []string{"SessionStart", "Stop", "SubagentStop", "Notification"}

// SetupCmd installs vigia hook entries into Claude Code's settings.json
type SetupCmd struct {
	DryRun   bool   `help:"Print the resulting settings without writing"`
	Settings string `help:"Path to Claude Code settings.json (defaults to ~/.claude/settings.json)"`
}

// Run executes the setup command
func (s *SetupCmd) Run(cli *CLI) error {
	settingsPath := s.Settings
	if settingsPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		settingsPath = filepath.Join(homeDir, ".claude", "settings.json")
	}

	vigiaBin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get vigia executable path: %w", err)
	}

	// Preserve everything already in the file; only the hooked event
	// entries are replaced.
	settings := map[string]interface{}{}
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("existing settings file is not valid JSON: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		hooks = map[string]interface{}{}
	}
	command := fmt.Sprintf("%s hook", vigiaBin)
	for _, event := range hookedEvents {
		hooks[event] = []map[string]interface{}{
			{
				"hooks": []map[string]interface{}{
					{
						"type":    "command",
						"command": command,
					},
				},
			},
		}
	}
	settings["hooks"] = hooks

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if s.DryRun {
		fmt.Println(string(out))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(settingsPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	logging.Logger.Info("Installed Claude Code hooks", "path", settingsPath)
	fmt.Printf("Installed vigia hooks in %s\n", settingsPath)
	fmt.Println("Run 'vigia serve' to start receiving notifications.")
	return nil
}
