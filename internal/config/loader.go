package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. GITSETUP_SSH_KEY_TYPE.
	EnvPrefix = "GITSETUP"
	// ConfigEnv names an explicit config file, bypassing the default location.
	ConfigEnv = "GITSETUP_CONFIG"
	// GlobalConfigDir is the directory for the config file, relative to home.
	GlobalConfigDir = ".config/gitsetup"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// DefaultPath returns ~/.config/gitsetup/config.yaml, or "" when the home
// directory can't be determined.
func DefaultPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LockPath returns the run lock directory next to the config file, or ""
// when the home directory can't be determined.
func LockPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, "run.lock")
}

// LoadDefault loads settings from $GITSETUP_CONFIG if set, otherwise from the
// default path when that file exists, otherwise from defaults and the
// environment alone.
func LoadDefault() (*Settings, error) {
	if explicit := os.Getenv(ConfigEnv); explicit != "" {
		return Load(explicit)
	}
	path := DefaultPath()
	if path == "" {
		return Load("")
	}
	if _, err := os.Stat(path); err != nil {
		return Load("")
	}
	return Load(path)
}

// Load reads settings from path (skipped when empty), layered over defaults
// and under GITSETUP_* environment variables.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't resolve config path "+path,
				"Use an absolute path")
		}
		v.SetConfigFile(expanded)

		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found: "+expanded,
					"Check the path, or unset "+ConfigEnv)
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := s.expandPaths(); err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("ssh.dir", d.SSH.Dir)
	v.SetDefault("ssh.key_name", d.SSH.KeyName)
	v.SetDefault("ssh.key_type", d.SSH.KeyType)
	v.SetDefault("ssh.host", d.SSH.Host)

	v.SetDefault("gpg.dir", d.GPG.Dir)
	v.SetDefault("gpg.program", d.GPG.Program)
	v.SetDefault("gpg.key_algo", d.GPG.KeyAlgo)
	v.SetDefault("gpg.subkey_algo", d.GPG.SubkeyAlgo)
	v.SetDefault("gpg.expiry", d.GPG.Expiry)
	v.SetDefault("gpg.pinentry", d.GPG.Pinentry)

	v.SetDefault("github.ssh_url", d.GitHub.SSHKeysURL)
	v.SetDefault("github.gpg_url", d.GitHub.GPGKeysURL)

	v.SetDefault("brew.prefix", d.Brew.Prefix)
	v.SetDefault("shell.rc", d.Shell.RC)

	v.SetDefault("platforms", d.Platforms)
}

func (s *Settings) expandPaths() error {
	for _, p := range []*string{&s.SSH.Dir, &s.GPG.Dir, &s.GPG.Pinentry, &s.Brew.Prefix, &s.Shell.RC} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't expand path "+*p,
				"Only ~ and ~/path are supported, not ~user")
		}
		*p = expanded
	}
	return nil
}
