package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
)

var sidebarsCmd = &cobra.Command{
	Use:   "sidebars",
	Short: "Inspects sidebar declarations",
}

var listYAML bool

var sidebarsListCmd = &cobra.Command{
	Use:   "list [id]",
	Short: "Prints the sidebar trees",
	Long: `The list command prints every sidebar, or only the one named, as an
indented tree. --yaml prints the normalized declaration instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sb, err := sidebar.Load(appConfig.SidebarsFile)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			one, ok := sb.Lookup(args[0])
			if !ok {
				return fmt.Errorf("sidebar %q not found, have %s", args[0], strings.Join(sb.IDs(), ", "))
			}
			sb = sidebar.Sidebars{one}
		}
		if listYAML {
			data, err := sb.Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode sidebars: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		for _, s := range sb {
			printSidebar(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

var sidebarsDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Prints the structural difference between two sidebar files",
	Long: `The diff command loads two sidebar declaration files and prints how the
second differs from the first. It exits with status 1 when they differ.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := sidebar.Load(args[0])
		if err != nil {
			return err
		}
		b, err := sidebar.Load(args[1])
		if err != nil {
			return err
		}
		if sidebar.Equal(a, b) {
			return nil
		}
		diff := sidebar.Diff(a, b)
		fmt.Fprintf(cmd.OutOrStdout(), "%s and %s differ (-%s +%s):\n%s", args[0], args[1], args[0], args[1], diff)
		return &exitError{code: 1, err: errors.New("sidebars differ")}
	},
}

// printSidebar writes one sidebar as an indented tree.
func printSidebar(w io.Writer, sb sidebar.Sidebar) {
	fmt.Fprintln(w, sb.ID)
	_ = sb.Walk(func(path []string, it sidebar.Item) error {
		indent := strings.Repeat("  ", len(path)+1)
		switch it.Type {
		case sidebar.TypeCategory:
			line := indent + it.Label + "/"
			if it.Link != nil {
				line += " -> " + it.Link.ID
			}
			fmt.Fprintln(w, line)
		default:
			line := indent + it.ID
			if it.Label != "" {
				line += " (" + it.Label + ")"
			}
			fmt.Fprintln(w, line)
		}
		return nil
	})
}

func init() {
	sidebarsListCmd.Flags().BoolVar(&listYAML, "yaml", false, "print normalized YAML")
	sidebarsCmd.AddCommand(sidebarsListCmd, sidebarsDiffCmd)
	rootCmd.AddCommand(sidebarsCmd)
}
