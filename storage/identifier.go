/*
 * Copyright (C) 2026 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package storage

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"gorm.io/gorm/clause"
)

// ErrUnsupportedInput is returned when an identifier is given in a form that can't be normalized.
var ErrUnsupportedInput = errors.New("unsupported identifier input")

var upperCaseRun = regexp.MustCompile(`[A-Z]+`)

// IdentifierInput is one of Name, Names or Identifier.
type IdentifierInput interface {
	identifierInput()
}

// Name is an unqualified, single-level identifier, e.g. a table name.
type Name string

// Names is a qualified identifier given as its parts, e.g. schema and table name.
type Names []string

func (Name) identifierInput()       {}
func (Names) identifierInput()      {}
func (Identifier) identifierInput() {}

// Identifier is a normalized, qualified SQL identifier (e.g. "public"."session").
// Quoting is left to the dialect of the database it's used with.
type Identifier struct {
	names []string
}

// Names returns the parts of the identifier, most significant first.
func (i Identifier) Names() []string {
	return append([]string(nil), i.names...)
}

// String returns the parts of the identifier joined by a dot, unquoted.
func (i Identifier) String() string {
	return strings.Join(i.names, ".")
}

// IsZero returns true if the identifier has no parts.
func (i Identifier) IsZero() bool {
	return len(i.names) == 0
}

// Table returns the identifier as table expression, to be used as query parameter.
func (i Identifier) Table() clause.Table {
	return clause.Table{Name: i.String()}
}

// NormalizeIdentifier converts the given input to an Identifier.
// An Identifier is returned as-is, Names are treated as levels of qualification and a single Name as unqualified identifier.
func NormalizeIdentifier(input IdentifierInput) (Identifier, error) {
	return normalizeIdentifier(input, nil)
}

// NormalizeIdentifierCamelToSnake is like NormalizeIdentifier, but converts every part of Name and Names input
// from camelCase to snake_case. Identifier input is returned as-is.
// See CamelToSnake for limitations of the conversion.
func NormalizeIdentifierCamelToSnake(input IdentifierInput) (Identifier, error) {
	return normalizeIdentifier(input, CamelToSnake)
}

// ParseIdentifier parses a dot-separated identifier (e.g. "public.session").
func ParseIdentifier(input string) (Identifier, error) {
	return NormalizeIdentifier(Names(strings.Split(input, ".")))
}

func normalizeIdentifier(input IdentifierInput, convert func(string) string) (Identifier, error) {
	var names []string
	switch in := input.(type) {
	case Identifier:
		if in.IsZero() {
			return Identifier{}, fmt.Errorf("%w: empty identifier", ErrUnsupportedInput)
		}
		return in, nil
	case Names:
		names = append(names, in...)
	case Name:
		names = []string{string(in)}
	default:
		return Identifier{}, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
	if len(names) == 0 {
		return Identifier{}, fmt.Errorf("%w: empty identifier", ErrUnsupportedInput)
	}
	for i, name := range names {
		if convert != nil {
			name = convert(name)
			names[i] = name
		}
		if name == "" || strings.Contains(name, ".") {
			return Identifier{}, fmt.Errorf("%w: invalid identifier name '%s'", ErrUnsupportedInput, name)
		}
	}
	return Identifier{names: names}, nil
}

// CamelToSnake converts a camelCase string to snake_case: each run of uppercase letters is replaced by an underscore
// followed by the run in lowercase, after which a leading underscore is removed.
// Note that consecutive capitals (acronyms) are treated as one word, e.g. "HTTPServer" becomes "httpserver".
func CamelToSnake(input string) string {
	result := upperCaseRun.ReplaceAllStringFunc(input, func(match string) string {
		return "_" + strings.ToLower(match)
	})
	return strings.TrimPrefix(result, "_")
}

// SnakeToCamel converts a snake_case string to camelCase, e.g. "expires_at" becomes "expiresAt".
func SnakeToCamel(input string) string {
	parts := strings.Split(input, "_")
	var builder strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 0 && builder.Len() > 0 {
			builder.WriteString(strings.ToUpper(part[:1]))
			builder.WriteString(part[1:])
		} else {
			builder.WriteString(part)
		}
	}
	return builder.String()
}

// BuildColumnList returns the snake_case column names of the exported fields of the given struct (or pointer to struct),
// in declared order, as comma-separated list of quoted column identifiers.
// Fields tagged with `gorm:"-"` are skipped.
func BuildColumnList(model interface{}) (clause.Expr, error) {
	columns, err := ColumnNames(model)
	if err != nil {
		return clause.Expr{}, err
	}
	placeholders := make([]string, len(columns))
	vars := make([]interface{}, len(columns))
	for i, column := range columns {
		placeholders[i] = "?"
		vars[i] = clause.Column{Name: column}
	}
	return clause.Expr{SQL: strings.Join(placeholders, ", "), Vars: vars}, nil
}

// ColumnNames returns the unquoted column names BuildColumnList derives from the given struct.
func ColumnNames(model interface{}) ([]string, error) {
	modelType := reflect.TypeOf(model)
	for modelType != nil && modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType == nil || modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: column list requires a struct, got %T", ErrUnsupportedInput, model)
	}
	var columns []string
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() || field.Tag.Get("gorm") == "-" {
			continue
		}
		columns = append(columns, CamelToSnake(field.Name))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s has no exported fields", ErrUnsupportedInput, modelType.Name())
	}
	return columns, nil
}
