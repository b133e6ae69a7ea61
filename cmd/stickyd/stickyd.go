package main

import (
	"os"
	"strings"

	"github.com/stickyd/stickyd/internal/config"
	"github.com/stickyd/stickyd/internal/configini"
	"github.com/stickyd/stickyd/internal/configpaths"
	"github.com/stickyd/stickyd/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	iniPaths, jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("stickyd"),
		kong.Description("Sticky keys daemon for Linux evdev keyboards"),
		kong.UsageOnError(),
		// Load configuration from ini/JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(configini.Loader, iniPaths...),
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var trace log.EventLogger
	if cli.Log.RawFile != "" {
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw event trace file", "file", cli.Log.RawFile, "error", err)
			trace = log.NewEventLogger(nil)
		} else {
			trace = log.NewEventLogger(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" {
		trace = log.NewEventLogger(os.Stdout)
	} else {
		trace = log.NewEventLogger(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(trace, (*log.EventLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("STICKYD_CONFIG"); v != "" {
		return v
	}
	return ""
}
