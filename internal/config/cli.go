// Package config defines the top-level CLI surface parsed by kong.
package config

import (
	"github.com/stickyd/stickyd/internal/cmd"
)

// Log holds the global logging flags.
type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"STICKYD_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" env:"STICKYD_LOG_FILE"`
	RawFile string `help:"Write a raw input/output event trace to this file" env:"STICKYD_LOG_RAW_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	Log    Log    `embed:"" prefix:"log."`
	Config string `help:"Path to a configuration file" env:"STICKYD_CONFIG"`

	Run       cmd.Run           `cmd:"" default:"withargs" help:"Run the sticky-keys daemon"`
	Devices   cmd.Devices       `cmd:"" help:"List input devices and autodetect candidates"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file utilities"`
	Install   cmd.Install       `cmd:"" help:"Install and start stickyd as a systemd service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Stop and remove the stickyd systemd service"`
}
