package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"treelint/internal/config"
	"treelint/internal/rule"
	"treelint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List available rules and their effective severity",
	RunE:  listRules,
}

func init() {
	rulesCmd.Flags().StringVarP(&configFlag, "config", "c", "",
		"Config file (default: discover .treelint.{json,yaml,yml,toml})")
	rootCmd.AddCommand(rulesCmd)
}

func listRules(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	eff, err := loadEffectiveConfig(logger)
	if err != nil {
		return err
	}

	registry := rules.Builtin()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tSEVERITY\tDESCRIPTION")

	for _, id := range registry.IDs() {
		r, _ := registry.Get(id)
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, effectiveSeverity(eff, r), r.Meta().Description)
	}
	return w.Flush()
}

// effectiveSeverity mirrors Registry.Resolve: a configured entry wins,
// otherwise the rule runs at its default severity.
func effectiveSeverity(eff *config.Effective, r rule.Rule) rule.Severity {
	if setting, ok := eff.Settings[r.ID()]; ok {
		return setting.Severity
	}
	return r.Meta().DefaultSeverity
}
