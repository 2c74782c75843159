package config

// Settings is everything gitsetup can be told from outside: where the managed
// files live, which keys to create, and where the upload pages are.
// Every field has a working default, so no config file is required.
type Settings struct {
	SSH       SSHSettings    `yaml:"ssh" mapstructure:"ssh"`
	GPG       GPGSettings    `yaml:"gpg" mapstructure:"gpg"`
	GitHub    GitHubSettings `yaml:"github" mapstructure:"github"`
	Brew      BrewSettings   `yaml:"brew" mapstructure:"brew"`
	Shell     ShellSettings  `yaml:"shell" mapstructure:"shell"`
	Platforms []string       `yaml:"platforms" mapstructure:"platforms"`
}

// SSHSettings controls the SSH key and the host alias block.
type SSHSettings struct {
	// Dir holds the key pair and the ssh config file.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// KeyName is the private key's file name; the public key adds ".pub".
	KeyName string `yaml:"key_name" mapstructure:"key_name"`

	// KeyType is passed to ssh-keygen -t.
	KeyType string `yaml:"key_type" mapstructure:"key_type"`

	// Host is the alias written to ~/.ssh/config and tested with ssh -T.
	Host string `yaml:"host" mapstructure:"host"`
}

// GPGSettings controls the signing key and gpg-agent.
type GPGSettings struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	Program    string `yaml:"program" mapstructure:"program"`
	KeyAlgo    string `yaml:"key_algo" mapstructure:"key_algo"`
	SubkeyAlgo string `yaml:"subkey_algo" mapstructure:"subkey_algo"`
	Expiry     string `yaml:"expiry" mapstructure:"expiry"`

	// Pinentry overrides pinentry program detection when set.
	Pinentry string `yaml:"pinentry" mapstructure:"pinentry"`
}

// GitHubSettings points at the pages where keys are pasted.
type GitHubSettings struct {
	SSHKeysURL string `yaml:"ssh_url" mapstructure:"ssh_url"`
	GPGKeysURL string `yaml:"gpg_url" mapstructure:"gpg_url"`
}

// BrewSettings overrides Homebrew prefix detection when Prefix is set.
type BrewSettings struct {
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// ShellSettings overrides shell rc detection when RC is set.
type ShellSettings struct {
	RC string `yaml:"rc" mapstructure:"rc"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		SSH: SSHSettings{
			Dir:     "~/.ssh",
			KeyName: "id_ed25519",
			KeyType: "ed25519",
			Host:    "github.com",
		},
		GPG: GPGSettings{
			Dir:        "~/.gnupg",
			Program:    "gpg",
			KeyAlgo:    "ed25519",
			SubkeyAlgo: "cv25519",
			Expiry:     "3y",
		},
		GitHub: GitHubSettings{
			SSHKeysURL: "https://github.com/settings/ssh/new",
			GPGKeysURL: "https://github.com/settings/gpg/new",
		},
		Platforms: []string{"darwin"},
	}
}
