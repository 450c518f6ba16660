// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)

// Media Playback - these keys configure the playback backend and the position sync loop.
const (
	Player                 = "player.default"
	PlayerBinary           = "player.binary"
	PlayerPollInterval     = "player.poll_interval"
	PlayerSeekStep         = "player.seek_step"
	PlayerFullscreenOnLoad = "player.fullscreen_on_load"
)

// Notifications - these keys govern the transient notification and alert surfaces.
const (
	NotifyDuration = "notify.duration"
	NotifyDesktop  = "notify.desktop"
	KeysBlocking   = "keys.blocking_alert"
)

// Library - these keys drive the file picker.
const (
	LibraryDir     = "library.dir"
	HistorySave    = "history.save"
	HistoryEntries = "history.entries"
)

// Remote Control Server - these keys configure "vplay serve".
const (
	ServerAddress        = "server.address"
	ServerMaxConnections = "server.max_connections"
	ServerUploadLimitMB  = "server.upload_limit_mb"
)

// Terminal User Interface (TUI).
const (
	TUIShowHelp = "tui.show_help"
)
