package config

import (
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

// YAML renders the settings in config-file form, so the output of
// `gitsetup config` can be saved as a starting config.yaml.
func (s *Settings) YAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't render settings as YAML", "")
	}
	return string(out), nil
}
