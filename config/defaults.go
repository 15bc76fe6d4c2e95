package config

const DefaultBaseURL = "http://localhost:8000"

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "0s",
		},
		UI: UIConfig{
			ShowTimestamps: true,
		},
	}
}

func GenerateConfigTemplate() string {
	return `# chatui configuration
# Location: ~/.config/chatui/config.toml
# This file uses TOML format: https://toml.io

[server]
# Chatbot backend; messages are POSTed to <base_url>/chat
base_url = "http://localhost:8000"

# Per-request timeout as a Go duration ("30s", "2m").
# "0s" leaves the request to the transport default.
timeout = "0s"

[ui]
# Show [15:04] timestamps next to each message
show_timestamps = true
`
}
