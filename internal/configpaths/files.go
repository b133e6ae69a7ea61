package configpaths

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultConfigDir returns the user configuration directory for stickyd.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stickyd"), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "stickyd"), nil
	}
	return "", errors.New("HOME not set")
}

// DefaultConfigPath returns the default config file path for the given format.
func DefaultConfigPath(format string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	ext := "ini"
	switch format {
	case "json":
		ext = "json"
	case "yaml", "yml":
		ext = "yaml"
	case "toml":
		ext = "toml"
	}
	return filepath.Join(dir, "stickyd."+ext), nil
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return os.MkdirAll(dir, 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// If userPath is provided, it is prioritized and routed to the matching
// loader by extension; an unknown extension is treated as ini, the primary
// configuration syntax.
func ConfigCandidatePaths(userPath string) (iniPaths, jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".json":
			add(&jsonPaths, userPath)
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&iniPaths, userPath)
		}
	}

	// Working directory candidates
	wd, _ := os.Getwd()
	dirs := []string{wd}

	// Config home
	if dir, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}

	// System-wide
	dirs = append(dirs, "/etc/stickyd")

	for _, dir := range dirs {
		for _, base := range []string{"stickyd", "config"} {
			add(&iniPaths, filepath.Join(dir, base+".ini"))
			add(&iniPaths, filepath.Join(dir, base+".conf"))
			add(&jsonPaths, filepath.Join(dir, base+".json"))
			add(&yamlPaths, filepath.Join(dir, base+".yaml"))
			add(&yamlPaths, filepath.Join(dir, base+".yml"))
			add(&tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	return
}
