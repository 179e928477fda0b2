// Package config loads quill-api settings from defaults, an optional
// config.yaml and QUILL_ prefixed environment variables, then validates them.
package config
