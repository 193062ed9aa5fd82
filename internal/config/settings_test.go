package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("VIGIA_HOME", t.TempDir())

	settings, err := LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, DefaultQueueCapacity, settings.QueueCapacityOrDefault())
	assert.Equal(t, DefaultIdleReminderSeconds*time.Second, settings.IdleReminderDelay())
	assert.Equal(t, DefaultRetentionDays*24*time.Hour, settings.Retention())
	assert.True(t, settings.SoundEnabledOrDefault())
}

func TestLoadSettings_ReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("VIGIA_HOME", home)

	content := `{"queue_capacity": 10, "idle_reminder_seconds": 60, "sound_enabled": false}`
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte(content), 0644))

	settings, err := LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, 10, settings.QueueCapacityOrDefault())
	assert.Equal(t, time.Minute, settings.IdleReminderDelay())
	assert.False(t, settings.SoundEnabledOrDefault())
}

func TestLoadSettings_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("VIGIA_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte("{nope"), 0644))

	_, err := LoadSettings()

	assert.Error(t, err)
}

func TestSettings_PathDefaultsFollowHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("VIGIA_HOME", home)

	settings := &Settings{}
	assert.Equal(t, filepath.Join(home, "vigia.sock"), settings.SocketPathOrDefault())
	assert.Equal(t, filepath.Join(home, "sessions.json"), settings.SessionStatePathOrDefault())
	assert.Equal(t, filepath.Join(home, "events.json"), settings.EventLogPathOrDefault())
	assert.Equal(t, filepath.Join(home, "history.db"), settings.ArchiveDBPathOrDefault())
}

func TestSettings_ExplicitPathsWin(t *testing.T) {
	settings := &Settings{
		SocketPath:   "/tmp/custom.sock",
		EventLogPath: "/tmp/custom-events.json",
	}

	assert.Equal(t, "/tmp/custom.sock", settings.SocketPathOrDefault())
	assert.Equal(t, "/tmp/custom-events.json", settings.EventLogPathOrDefault())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), ExpandPath("~/x"))
	assert.Equal(t, "/absolute/path", ExpandPath("/absolute/path"))
	assert.Equal(t, home, ExpandPath("~"))
}
