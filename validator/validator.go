package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ridoystarlord/relq/schema"
)

// ValidationError represents a single finding with details
type ValidationError struct {
	Type     string `json:"type"`
	Relation string `json:"relation,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgreSQL reserved words that cannot be used unquoted in conditions.
var reservedKeywords = map[string]bool{
	"all": true, "and": true, "any": true, "as": true, "asc": true,
	"between": true, "case": true, "cast": true, "check": true,
	"column": true, "constraint": true, "create": true, "default": true,
	"desc": true, "distinct": true, "do": true, "else": true, "end": true,
	"false": true, "for": true, "foreign": true, "from": true, "full": true,
	"group": true, "having": true, "in": true, "inner": true, "join": true,
	"left": true, "limit": true, "not": true, "null": true, "offset": true,
	"on": true, "or": true, "order": true, "outer": true, "primary": true,
	"references": true, "right": true, "select": true, "table": true,
	"then": true, "to": true, "true": true, "union": true, "unique": true,
	"user": true, "using": true, "when": true, "where": true, "with": true,
}

// ValidateSchema checks a relation registry for problems that would break or
// degrade query building: invalid identifiers, reserved words, relations
// without a primary key, and relation pairs with more than one association
// in the same direction (those pairs cannot use join inference and will
// demand an explicit association or condition).
func ValidateSchema(s *schema.Schema) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	for _, rel := range s.Relations() {
		validateRelation(rel, result)
	}
	validateAssociations(s, result)

	result.Valid = len(result.Errors) == 0
	return result
}

func validateRelation(rel *schema.Relation, result *ValidationResult) {
	validateIdentifier(rel.ShortName(), rel.Name(), "", result)

	for _, col := range rel.Columns() {
		validateIdentifier(col.Name, rel.Name(), col.Name, result)
		if col.Type == "" {
			addError(result, ValidationError{
				Type:     "missing_type",
				Relation: rel.Name(),
				Column:   col.Name,
				Message:  fmt.Sprintf("column %q has no type", col.Name),
				Severity: "error",
			})
		}
	}

	if _, ok := rel.PrimaryKey(); !ok && rel.Kind() == schema.Table {
		result.Info = append(result.Info, ValidationError{
			Type:     "no_primary_key",
			Relation: rel.Name(),
			Message:  fmt.Sprintf("table %q has no primary key", rel.Name()),
			Severity: "info",
		})
	}
}

func validateIdentifier(name, relation, column string, result *ValidationResult) {
	lower := strings.ToLower(name)
	if !identifierPattern.MatchString(lower) {
		addError(result, ValidationError{
			Type:     "invalid_identifier",
			Relation: relation,
			Column:   column,
			Message:  fmt.Sprintf("%q is not a valid PostgreSQL identifier", name),
			Severity: "error",
		})
		return
	}
	if reservedKeywords[lower] {
		result.Warnings = append(result.Warnings, ValidationError{
			Type:     "reserved_keyword",
			Relation: relation,
			Column:   column,
			Message:  fmt.Sprintf("%q is a reserved keyword and will need quoting in conditions", name),
			Severity: "warning",
		})
	}
}

func validateAssociations(s *schema.Schema, result *ValidationResult) {
	for _, child := range s.Relations() {
		byParent := map[string]int{}
		selfRef := false
		for _, a := range child.Associations() {
			byParent[a.Parent().Name()]++
			if a.Parent().Name() == child.Name() {
				selfRef = true
			}
		}
		for parent, count := range byParent {
			if count > 1 {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:     "ambiguous_association",
					Relation: child.Name(),
					Message: fmt.Sprintf("%s declares %d foreign keys to %s; joins between them require an explicit association or condition",
						child.Name(), count, parent),
					Severity: "warning",
				})
			}
		}
		if selfRef {
			result.Info = append(result.Info, ValidationError{
				Type:     "self_reference",
				Relation: child.Name(),
				Message:  fmt.Sprintf("%s references itself; self-joins need distinct aliases and an explicit condition", child.Name()),
				Severity: "info",
			})
		}
	}
}

func addError(result *ValidationResult, e ValidationError) {
	result.Errors = append(result.Errors, e)
}
