package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

// ValidKeyTypes are the ssh-keygen -t values gitsetup will pass through.
var ValidKeyTypes = map[string]bool{
	"ed25519": true,
	"ecdsa":   true,
	"rsa":     true,
}

// Validate checks settings for values that would break a step later on.
func Validate(s *Settings) error {
	if !ValidKeyTypes[s.SSH.KeyType] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid SSH key type: %s", s.SSH.KeyType),
			"Supported types: ed25519 (recommended), ecdsa, rsa")
	}

	if s.SSH.KeyName == "" || strings.ContainsRune(s.SSH.KeyName, '/') {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid SSH key name: %q", s.SSH.KeyName),
			"Use a plain file name like id_ed25519; set ssh.dir for the directory")
	}

	if s.SSH.Host == "" || strings.ContainsAny(s.SSH.Host, " \t*?") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid SSH host: %q", s.SSH.Host),
			"Use a single concrete host name like github.com")
	}

	required := map[string]string{
		"gpg.program":  s.GPG.Program,
		"gpg.key_algo": s.GPG.KeyAlgo,
		"gpg.expiry":   s.GPG.Expiry,
	}
	for _, key := range []string{"gpg.program", "gpg.key_algo", "gpg.expiry"} {
		if strings.TrimSpace(required[key]) == "" {
			return errors.New(errors.ErrConfig,
				key+" can't be empty",
				"Remove it from the config file to use the default")
		}
	}

	if len(s.Platforms) == 0 {
		return errors.New(errors.ErrConfig,
			"platforms can't be empty",
			"List at least one OS, e.g. platforms: [darwin]")
	}

	return nil
}
