package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local admin accounts with sessions
)

type (
	Config struct {
		HTTP
		Global
		Database
		Import
		WatchSync
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Import struct {
		// UploadDir is the spool directory for files received by the
		// async import endpoint, consumed by background import tasks.
		UploadDir string
		// UploadRetention is how long processed upload files are kept
		// before the cleanup task removes them.
		UploadRetention time.Duration
	}
	WatchSync struct {
		Enabled  bool
		Dir      string
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Import defaults
	v.SetDefault("import_upload_dir", "./uploads")
	v.SetDefault("import_upload_retention", "24h")

	// Watch directory sync defaults
	v.SetDefault("watch_sync_enabled", false)
	v.SetDefault("watch_sync_dir", "./watch")
	v.SetDefault("watch_sync_schedule", "*/15 * * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Import: Import{
			UploadDir:       v.GetString("IMPORT_UPLOAD_DIR"),
			UploadRetention: v.GetDuration("IMPORT_UPLOAD_RETENTION"),
		},
		WatchSync: WatchSync{
			Enabled:  v.GetBool("WATCH_SYNC_ENABLED"),
			Dir:      v.GetString("WATCH_SYNC_DIR"),
			Schedule: v.GetString("WATCH_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			Mode:            AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
	}
}
