package cmd

import (
	"fmt"
	"log"
	"time"

	"db-compare/internal/introspect"
	"db-compare/internal/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var snapshotOutput string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <target>",
	Short: "Record a target's schema in a TOML file",
	Long: `Record a target's schema in a TOML file.

The file can later be compared like a database:
  db-compare compare prod snapshot://prod-baseline.toml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := GetTarget(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		log.Printf("Introspecting %s (%s)...", target, target.Driver)
		bars := newProgress(true, target)
		s, err := introspect.NewRouter(viper.GetBool("settings.normalize_types"), bars.step).Introspect(ctx, target)
		bars.stop()
		if err != nil {
			return err
		}

		include, skip := tableFilters()
		s = schema.Filter(s, include, skip)

		meta := schema.SnapshotMeta{Driver: target.Driver, TakenAt: time.Now()}
		if err := schema.WriteSnapshot(snapshotOutput, s, meta); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "📸 Snapshot of %s written to %s (%d tables)\n", target, snapshotOutput, len(s.Tables))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "Snapshot file to write")
	snapshotCmd.MarkFlagRequired("output")
}
