package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/relq/loader"
	"github.com/ridoystarlord/relq/validator"
)

var (
	validateSchemaFile string
	validateFormat     string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a YAML schema for query-building problems",
	Long: `Validate your schema file against PostgreSQL naming rules and
association sanity checks:

- Relation and column naming (identifier rules, reserved keywords)
- Foreign key references (valid relation/column, comparable types)
- Ambiguous associations (pairs that cannot use join inference)
- Missing primary keys

Examples:
  relq validate
  relq validate --schema custom.yaml
  relq validate --format json
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(); err != nil {
			fmt.Printf("❌ Schema validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "schema.yaml", "Schema file to validate")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func runValidate() error {
	s, err := loader.LoadSchemaFromYAML(validateSchemaFile)
	if err != nil {
		return fmt.Errorf("failed to load schema: %v", err)
	}

	result := validator.ValidateSchema(s)

	if validateFormat == "json" {
		return outputJSON(result)
	}
	return outputText(result)
}

func outputJSON(result *validator.ValidationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling result: %v", err)
	}
	fmt.Println(string(data))
	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func outputText(result *validator.ValidationResult) error {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, e := range result.Errors {
		red.Printf("❌ %s\n", e.Message)
	}
	for _, w := range result.Warnings {
		yellow.Printf("⚠️  %s\n", w.Message)
	}
	for _, i := range result.Info {
		cyan.Printf("ℹ️  %s\n", i.Message)
	}

	if result.Valid {
		fmt.Println("✅ Schema is valid")
		return nil
	}
	os.Exit(1)
	return nil
}
