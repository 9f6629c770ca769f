// Package config loads ksapply settings.
//
// Settings come from, in increasing priority:
//   - Built-in defaults
//   - A config file (.ksapply.yaml, or JSON with comments)
//   - KSAPPLY_* environment variables, and GIT_DIR/LINUX_GIT for the repository
//   - Command-line flags
package config
