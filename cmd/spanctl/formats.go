package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zoobzio/spanned"
	"github.com/zoobzio/spanned/bson"
	"github.com/zoobzio/spanned/json"
	"github.com/zoobzio/spanned/msgpack"
	"github.com/zoobzio/spanned/toml"
	"github.com/zoobzio/spanned/yaml"
)

var errUnknownFormat = errors.New("unknown format")

var formats = map[string]func() spanned.Format{
	"json":    json.New,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
	"toml":    toml.New,
}

var extensions = map[string]string{
	".json":    "json",
	".yaml":    "yaml",
	".yml":     "yaml",
	".msgpack": "msgpack",
	".mpk":     "msgpack",
	".bson":    "bson",
	".toml":    "toml",
}

// formatNames returns the supported format names in sorted order.
func formatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveFormat picks the format by explicit name, falling back to the file extension.
func resolveFormat(name, path string) (string, spanned.Format, error) {
	if name == "" {
		ext := strings.ToLower(filepath.Ext(path))
		inferred, ok := extensions[ext]
		if !ok {
			return "", nil, fmt.Errorf("%w for extension %q (use --format: %s)",
				errUnknownFormat, ext, strings.Join(formatNames(), ", "))
		}
		name = inferred
	}
	newFormat, ok := formats[strings.ToLower(name)]
	if !ok {
		return "", nil, fmt.Errorf("%w %q (want one of %s)", errUnknownFormat, name, strings.Join(formatNames(), ", "))
	}
	return strings.ToLower(name), newFormat(), nil
}
