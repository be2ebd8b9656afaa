package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relq",
	Short: "A relational-algebra query builder for PostgreSQL schemas",
	Long: `relq models tables and views as composable query nodes, infers join
conditions from declared foreign keys, and renders join trees to SQL.

Examples:

  relq init
  relq inspect
  relq render book category
  relq validate
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(ddlCmd)
}
