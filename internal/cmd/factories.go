package cmd

import (
	"sync"

	adapterclaude "github.com/renato0307/vigia/internal/adapters/claude"
	adaptersound "github.com/renato0307/vigia/internal/adapters/sound"
	"github.com/renato0307/vigia/internal/adapters/statefile"
	adapterstorage "github.com/renato0307/vigia/internal/adapters/storage"
	"github.com/renato0307/vigia/internal/config"
	"github.com/renato0307/vigia/internal/ports"
)

// Container holds the shared dependencies for the commands. The archive
// database is opened lazily so short-lived commands like hook never touch
// sqlite.
type Container struct {
	Settings     *config.Settings
	SessionStore *statefile.SessionStore
	EventStore   *statefile.EventStore
	SoundPlayer  ports.SoundPlayer
	Summarizer   ports.TranscriptSummarizer

	mu      sync.Mutex
	archive ports.EventArchive
}

// NewContainer creates a Container with all dependencies wired
func NewContainer(settings *config.Settings) *Container {
	if settings == nil {
		settings = &config.Settings{}
	}
	return &Container{
		Settings:     settings,
		SessionStore: statefile.NewSessionStore(settings.SessionStatePathOrDefault()),
		EventStore:   statefile.NewEventStore(settings.EventLogPathOrDefault()),
		SoundPlayer:  adaptersound.NewPlayer(),
		Summarizer:   adapterclaude.NewSummarizer(),
	}
}

// Archive opens the sqlite history archive on first use
func (c *Container) Archive() (ports.EventArchive, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.archive != nil {
		return c.archive, nil
	}
	archive, err := adapterstorage.NewSQLiteArchive(c.Settings.ArchiveDBPathOrDefault())
	if err != nil {
		return nil, err
	}
	c.archive = archive
	return archive, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.archive != nil {
		err := c.archive.Close()
		c.archive = nil
		return err
	}
	return nil
}
