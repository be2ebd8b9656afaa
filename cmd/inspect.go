package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/relq/database"
	"github.com/ridoystarlord/relq/introspect"
	"github.com/ridoystarlord/relq/schema"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show relations and associations of the connected database",
	Long: `Introspect the database pointed at by DATABASE_URL and print every
table and view with its columns, primary key and foreign-key associations.

Examples:
  relq inspect
  DATABASE_URL=postgres://... relq inspect
`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := introspect.IntrospectSchema()
		if err != nil {
			fmt.Printf("❌ Error introspecting database: %v\n", err)
			os.Exit(1)
		}
		defer database.ClosePool()

		printSchema(s)
	},
}

func printSchema(s *schema.Schema) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	fmt.Println("🔍 Database Schema")
	fmt.Println(strings.Repeat("=", 50))

	for _, rel := range s.Relations() {
		kind := "table"
		if rel.Kind() == schema.View {
			kind = "view"
		}
		bold.Printf("\n%s (%s)\n", rel.Name(), kind)

		for _, col := range rel.Columns() {
			marker := "  "
			if col.Primary {
				marker = "🔑"
			}
			fmt.Printf("  %s %s %s", marker, col.Name, col.Type)
			if col.NotNull {
				yellow.Print(" NOT NULL")
			}
			if col.Unique {
				cyan.Print(" UNIQUE")
			}
			fmt.Println()
		}

		for _, assoc := range rel.Associations() {
			green.Printf("  → %s", assoc)
			fmt.Printf("  (ON DELETE %s, ON UPDATE %s)\n", assoc.OnDelete(), assoc.OnUpdate())
		}
	}

	fmt.Println()
	fmt.Printf("✅ %d relations\n", len(s.Relations()))
}
