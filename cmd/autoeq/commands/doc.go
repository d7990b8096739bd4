// Package commands defines the autoeq CLI.
//
// Commands
//
//   - compute    Average measurement exports against a target and write the equalizer file
//   - grid       Print the equal-loudness analysis grid
//   - version    Print the build version
//
// # Implementation
//
// The root command loads configuration and sets up logging before any
// subcommand runs. Flags override the corresponding configuration values.
package commands
