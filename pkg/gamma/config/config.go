// Package config loads gamma.Parameters from a YAML or JSON file, format
// auto-detected from the file extension.
package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/params"
)

// Load reads gamma parameters from path, auto-detecting YAML vs JSON from
// the file extension (".json" for JSON, everything else as YAML).
func Load(path string) (params.Parameters, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return params.Parameters{}, gerr.Wrap(gerr.IOError, op, "opening config file", err)
	}
	defer f.Close()

	return LoadFromReader(f, detectFormat(path))
}

// LoadFromReader reads gamma parameters from r in the given format ("json"
// or "yaml"/"yml").
func LoadFromReader(r io.Reader, format string) (params.Parameters, error) {
	const op = "config.LoadFromReader"

	data, err := io.ReadAll(r)
	if err != nil {
		return params.Parameters{}, gerr.Wrap(gerr.IOError, op, "reading config", err)
	}

	var p params.Parameters
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &p)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &p)
	default:
		return params.Parameters{}, gerr.New(gerr.UnexpectedFormat, op, "unsupported config format: "+format)
	}
	if err != nil {
		return params.Parameters{}, gerr.Wrap(gerr.UnexpectedFormat, op, "unmarshaling config", err)
	}

	if err := p.Validate(op); err != nil {
		return params.Parameters{}, err
	}
	return p, nil
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}
