package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExpandEnv expands ${VAR} and $VAR references in raw YAML content using
// the standard library's shell-style expansion. Missing variables expand
// to the empty string; Validate catches required fields left empty.
func ExpandEnv(data []byte) []byte {
	return []byte(os.Expand(string(data), os.Getenv))
}

// Load reads a YAML configuration file, applies environment expansion,
// merges it over Default(), and returns the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, NewLoadError(path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(ExpandEnv(data), cfg); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}
	return cfg, nil
}

// RequiredCredentials lists the provider families whose credential must be
// present for the system to run at all. Only OpenAI is required; every
// other family is optional and simply unavailable for dispatch/fallback
// when its credential is unset.
var RequiredCredentials = []string{"openai"}

// Validate checks that every entry in RequiredCredentials has a non-empty
// environment variable set, and returns the names of any that are missing.
func (c *Config) Validate() []string {
	var missing []string
	for _, family := range RequiredCredentials {
		cred, ok := c.Credentials[family]
		if !ok || os.Getenv(cred.APIKeyEnv) == "" {
			missing = append(missing, family)
		}
	}
	return missing
}
