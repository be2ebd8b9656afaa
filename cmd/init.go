package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter schema.yaml",
	Long: `Create a starter schema.yaml with an example pair of related tables.

Columns may declare a foreign_key block; relq registers those as associations
and uses them to infer join conditions.

Examples:
  relq init
`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat("schema.yaml"); err == nil {
			fmt.Println("❌ schema.yaml already exists!")
			return
		}

		content := `# Relations and their foreign-key associations
tables:
  - name: category
    columns:
      - name: id
        type: serial
        primary: true
      - name: name
        type: text
        not_null: true

  - name: book
    columns:
      - name: id
        type: serial
        primary: true
      - name: title
        type: text
        not_null: true
      - name: category_id
        type: integer
        foreign_key:
          references_table: category
          references_column: id
          on_delete: CASCADE
          on_update: NO ACTION
`

		if err := os.WriteFile("schema.yaml", []byte(content), 0644); err != nil {
			fmt.Printf("❌ Error writing schema.yaml: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Created schema.yaml")
		fmt.Println("👉 Next: relq render book category")
	},
}
