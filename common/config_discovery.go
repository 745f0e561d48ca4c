package common

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// ConfigCandidates lists config file names in order of precedence.
var ConfigCandidates = []string{"config.yml", "config.yaml", "config.toml", "config.json"}

// ConfigDiscoveryResult holds the result of discovering config files
type ConfigDiscoveryResult struct {
	// ChosenPath is the highest precedence file that exists, or empty
	ChosenPath string
	// AllFound lists every candidate that exists, used to warn about shadowed files
	AllFound []string
}

// DiscoverConfigFile returns the first existing candidate under dir along with
// every candidate found.
func DiscoverConfigFile(dir string, candidates []string) ConfigDiscoveryResult {
	result := ConfigDiscoveryResult{}

	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			result.AllFound = append(result.AllFound, path)
			if result.ChosenPath == "" {
				result.ChosenPath = path
			}
		}
	}

	return result
}

// GetParserForExtension returns the koanf parser for .yml, .yaml, .toml and
// .json files, or nil for anything else.
func GetParserForExtension(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	case ".json":
		return json.Parser()
	default:
		return nil
	}
}
