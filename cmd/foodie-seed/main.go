// Command foodie-seed maintains static seed data for Foodie.
//
//	foodie-seed append --kind recipes --data web/recipes.json --from new.yaml
//	foodie-seed load --kind ingredients --from ingredients.json --db ./data/foodie.db
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foodie-app/foodie/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "foodie-seed",
		Short:        "Append and load Foodie seed data",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		zl, err := logger.New(logLevel, true)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(zl)
		return nil
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newAppendCmd(), newLoadCmd())
	return root
}

func newAppendCmd() *cobra.Command {
	var kind, dataPath, seedPath string

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append seed records missing from a JSON data file",
		Long: `Reads --from (JSON or YAML array) and appends every record that --data
does not already contain, matching by id or, without an id, by normalized
name (ingredients) or title (recipes). Existing records keep their order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := appendSeed(kind, dataPath, seedPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d existing, %d added, %d skipped\n",
				dataPath, res.Existing, res.Added, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "recipes or ingredients")
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON array file to append to")
	cmd.Flags().StringVar(&seedPath, "from", "", "seed file (.json, .yaml or .yml)")
	for _, f := range []string{"kind", "data", "from"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newLoadCmd() *cobra.Command {
	opts := loadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Insert seed records into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadSeed(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d inserted, %d skipped\n", opts.kind, res.Inserted, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "recipes or ingredients")
	cmd.Flags().StringVar(&opts.seedPath, "from", "", "seed file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.dbPath, "db", envOr("DATABASE_PATH", "./data/foodie.db"), "SQLite database path")
	cmd.Flags().StringVar(&opts.ownerEmail, "owner", "", "email of the user owning loaded recipes")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0.8, "ingredient resolve similarity threshold")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
