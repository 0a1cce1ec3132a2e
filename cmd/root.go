package cmd

import (
	"fmt"

	dotenv "github.com/dsh2dsh/expx-dotenv"
	"github.com/spf13/cobra"

	"github.com/cy2753/edgar8k/cmd/crawl"
	"github.com/cy2753/edgar8k/cmd/db"
)

// SchemaSQL contains db/schema.sql via main.go
var SchemaSQL string

var rootCmd = cobra.Command{
	Use:   "edgar8k",
	Short: "Collect 8-K Item 2.02 press releases from SEC EDGAR",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvs()
	},
}

func init() {
	rootCmd.AddCommand(&crawl.Cmd)
	rootCmd.AddCommand(&db.Cmd)
}

func Execute() {
	db.SchemaSQL = SchemaSQL
	cobra.CheckErr(rootCmd.Execute())
}

func loadEnvs() error {
	if err := dotenv.New().WithDepth(1).Load(); err != nil {
		return fmt.Errorf("load edgar8k envs: %w", err)
	}
	return nil
}
