package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/speccloak/speccloak/internal/adapters/outbound/config"
	"github.com/speccloak/speccloak/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd() *cobra.Command {
	var (
		base  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .speccloak.yml configuration file",
		Long:  "Create a .speccloak.yml with the default base reference, format and report sections.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			if base == "" {
				return fmt.Errorf("--base must not be empty")
			}

			content, err := generateConfig(base)
			if err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "origin/main", "Base reference written to the config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .speccloak.yml")

	return cmd
}

func generateConfig(base string) (string, error) {
	cfg := domain.DefaultConfig()
	cfg.Base = base

	data, err := yaml.Marshal(struct {
		Base     string   `yaml:"base"`
		Format   string   `yaml:"format"`
		Sections []string `yaml:"sections"`
	}{cfg.Base, cfg.Format, cfg.Sections})
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	var b strings.Builder
	b.WriteString("# speccloak configuration\n\n")
	b.Write(data)
	b.WriteString(`
# report_path: coverage/.resultset.json

# Extra exclusion patterns, added to the defaults (or to SPECLOAK_EXCLUDE).
# exclude:
#   - app/admin/
#   - \.rake$

# Drop changed files matching an exclusion pattern before analysis.
# apply_exclusions: true

# Append every run to .speccloak/history/runs.json.
# history: true
`)
	return b.String(), nil
}
