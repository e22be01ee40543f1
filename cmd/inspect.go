package cmd

import (
	"log"

	"db-compare/internal/introspect"
	"db-compare/internal/report"
	"db-compare/internal/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <target>",
	Short: "Print the tables and columns of one target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := GetTarget(args[0])
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(viper.GetString("settings.format"))
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		log.Printf("Introspecting %s (%s)...", target, target.Driver)
		bars := newProgress(format == report.Text, target)
		s, err := introspect.NewRouter(viper.GetBool("settings.normalize_types"), bars.step).Introspect(ctx, target)
		bars.stop()
		if err != nil {
			return err
		}

		include, skip := tableFilters()
		return report.WriteSchema(cmd.OutOrStdout(), format, schema.Filter(s, include, skip))
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
