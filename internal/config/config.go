package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Practice PracticeConfig `yaml:"practice"`
	Drafts   DraftsConfig   `yaml:"drafts"`
	Room     RoomConfig     `yaml:"room"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds tutor backend connection settings.
type ServerConfig struct {
	BaseURL string        `yaml:"base_url" env:"TOLMACH_SERVER_URL" env-default:"http://localhost:5001"`
	Timeout time.Duration `yaml:"timeout"  env:"TOLMACH_TIMEOUT"    env-default:"30s"`
}

// PracticeConfig holds translation practice settings.
type PracticeConfig struct {
	// InitData is the opaque identity blob issued by the chat platform.
	// It is forwarded verbatim on every request; the backend resolves it
	// into a user and session.
	InitData   string `yaml:"init_data"   env:"TOLMACH_INIT_DATA"`
	BatchLimit int    `yaml:"batch_limit" env:"TOLMACH_BATCH_LIMIT" env-default:"7"`
}

// DraftsConfig holds the local draft cache settings.
type DraftsConfig struct {
	// Path to the SQLite file. Empty means the default XDG data path.
	Path string `yaml:"path" env:"TOLMACH_DB"`
}

// RoomConfig holds voice-room settings. The room itself is an external
// collaborator; the client only fetches a join token.
type RoomConfig struct {
	URL string `yaml:"url" env:"TOLMACH_ROOM_URL" env-default:"wss://implemrntingvoicetobot-vhsnc86g.livekit.cloud"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"TOLMACH_LOG_LEVEL" env-default:"info"`
	// File receives diagnostics. Empty means stderr, which is only safe
	// for one-shot commands; the TUI sets a file path before starting.
	File string `yaml:"file" env:"TOLMACH_LOG_FILE"`
}
