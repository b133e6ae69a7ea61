// Package configini makes ini files usable as kong configuration, in the
// same loader chain as the json/yaml/toml loaders. ini is the primary
// configuration syntax for stickyd.
package configini

import (
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	ini "gopkg.in/ini.v1"
)

// Loader is a kong.ConfigurationLoader that reads an ini file.
func Loader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	return &resolver{file: f}, nil
}

type resolver struct {
	file *ini.File
}

func (r *resolver) Validate(app *kong.Application) error { return nil }

// Resolve maps a flag to an ini value. A flag named "log.level" is looked up
// as key "level" in section [log]; unprefixed flags live in the top-level
// section. Both the flag spelling ("clear-all-with-escape") and the ini
// spelling ("clear_all_with_escape") are accepted.
func (r *resolver) Resolve(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
	section, key := "", flag.Name
	if i := strings.LastIndex(flag.Name, "."); i >= 0 {
		section, key = flag.Name[:i], flag.Name[i+1:]
	}

	sec := r.file.Section(section)
	for _, name := range []string{key, strings.ReplaceAll(key, "-", "_")} {
		if !sec.HasKey(name) {
			continue
		}
		value := sec.Key(name).String()
		if isDurationFlag(flag) && isBareNumber(value) {
			// Bare numeric durations in ini files mean milliseconds.
			value += "ms"
		}
		return value, nil
	}
	return nil, nil
}

func isDurationFlag(flag *kong.Flag) bool {
	return flag.Target.IsValid() && flag.Target.Type() == reflect.TypeOf(time.Duration(0))
}

func isBareNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
