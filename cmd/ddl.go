package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/relq/ddl"
	"github.com/ridoystarlord/relq/loader"
)

var ddlSchemaFile string

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the CREATE TABLE statements for the schema file",
	Long: `Render the relations and associations of a schema file as DDL:
CREATE TABLE statements followed by foreign-key constraints.

Examples:
  relq ddl
  relq ddl --schema custom.yaml
`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loader.LoadSchemaFromYAML(ddlSchemaFile)
		if err != nil {
			fmt.Printf("❌ Error loading schema: %v\n", err)
			os.Exit(1)
		}
		for _, stmt := range ddl.GenerateSQL(s) {
			fmt.Println(stmt)
		}
	},
}

func init() {
	ddlCmd.Flags().StringVarP(&ddlSchemaFile, "schema", "s", "schema.yaml", "Schema file to load")
}
