package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evolute-studio/mage-duel-docs/internal/builder"
	"github.com/evolute-studio/mage-duel-docs/internal/content"
	"github.com/evolute-studio/mage-duel-docs/internal/log"
	"github.com/evolute-studio/mage-duel-docs/internal/model"
	"github.com/evolute-studio/mage-duel-docs/internal/site"
)

var (
	strictCheck bool
	checkPolicy string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validates the declarations and checks every reference without rendering",
	Long: `The check command validates site.yaml and sidebars.yaml, indexes the content
tree, and reports sidebar entries, navbar items and Markdown links that point
at missing docs. It exits non-zero when validation fails or when a broken
reference falls under the 'throw' policy. --policy applies one policy to
every kind of reference. --strict is short for --policy throw.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithComponent("check")

		override := checkPolicy
		if strictCheck {
			override = string(site.PolicyThrow)
		}
		var policy site.Policy
		if override != "" {
			p, err := site.ParsePolicy(override)
			if err != nil {
				return err
			}
			policy = p
		}

		siteCfg, sb, err := loadDeclarations()
		if err != nil {
			return err
		}
		if policy != "" {
			siteCfg.OnBrokenLinks = policy
			siteCfg.OnBrokenMarkdownLinks = policy
		}

		if _, err := os.Stat(appConfig.ContentDir); err != nil {
			return fmt.Errorf("content directory '%s' not found", appConfig.ContentDir)
		}
		idx, err := content.Load(os.DirFS(appConfig.ContentDir))
		if err != nil {
			return err
		}

		data := &model.SiteData{Config: siteCfg, Sidebars: sb, Docs: idx.Map()}
		broken, err := builder.Verify(logger, data, idx)
		if err != nil {
			return &exitError{code: 1, err: err}
		}
		logger.Info().
			Int("sidebars", len(sb)).
			Int("docs", idx.Len()).
			Int("broken_links", len(broken)).
			Msg("check completed")
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&strictCheck, "strict", false, "treat every broken reference as fatal")
	checkCmd.Flags().StringVar(&checkPolicy, "policy", "", "broken reference policy for every check (ignore, log, warn, throw)")
	rootCmd.AddCommand(checkCmd)
}
