package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gitsetup/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings as YAML",
	Long: `Print the settings gitsetup would use, after defaults, the config file
and GITSETUP_* environment variables are merged.

The output is valid config.yaml. Save it to ~/.config/gitsetup/config.yaml
as a starting point:

  gitsetup config > ~/.config/gitsetup/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func writeConfig(w io.Writer, s *config.Settings) error {
	out, err := s.YAML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
