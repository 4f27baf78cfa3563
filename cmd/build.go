package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/evolute-studio/mage-duel-docs/internal/builder"
	"github.com/evolute-studio/mage-duel-docs/internal/log"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the documentation site into the output directory",
	Long: `The build command loads site.yaml and sidebars.yaml, indexes the Markdown
files under the content directory, checks sidebar, navbar and Markdown links
under the configured onBrokenLinks policies, renders every doc page plus the
home page, and copies static assets into the output directory (default
'./build/').`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runBuildProcess(cmd.Context())
		return err
	},
}

func runBuildProcess(ctx context.Context) (*builder.Result, error) {
	siteCfg, sb, err := loadDeclarations()
	if err != nil {
		return nil, err
	}
	return builder.New(appConfig, siteCfg, sb, log.WithComponent("build")).Run(ctx)
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
