// Package configs manages the ahasecret user configuration.
//
// Configuration is stored in TOML at <user config dir>/ahasecret/config.toml:
//
//	[server]
//	url = "https://secret.example.com"
//	timeout_seconds = 30
//
//	[defaults]
//	retention = "7d"
//	confirm_reveal = true
//
//	[history]
//	enabled = true
//
// A missing file is not an error; DefaultConfig applies. Command-line flags
// take precedence over the file, which takes precedence over the defaults.
//
// # Settings
//
// Settings holds the resolved config and data directories. The data
// directory honours XDG_DATA_HOME and holds the local history.
package configs
