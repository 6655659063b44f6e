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
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMultipleRows is returned when a query that should match at most one row matched more.
var ErrMultipleRows = errors.New("query returned more than one row")

var _ Database = (*SQLDatabase)(nil)
var _ Connection = (*sqlConnection)(nil)

// FieldNameFormat specifies how the field names of result rows are presented.
type FieldNameFormat string

const (
	// SnakeCaseFieldNames presents field names as returned by the database, which by convention is snake_case.
	SnakeCaseFieldNames FieldNameFormat = "snake_case"
	// CamelCaseFieldNames converts snake_case field names of result rows to camelCase.
	CamelCaseFieldNames FieldNameFormat = "camelCase"
)

// ParseFieldNameFormat parses the given configuration value. An empty value yields SnakeCaseFieldNames.
func ParseFieldNameFormat(value string) (FieldNameFormat, error) {
	switch FieldNameFormat(value) {
	case "", SnakeCaseFieldNames:
		return SnakeCaseFieldNames, nil
	case CamelCaseFieldNames:
		return CamelCaseFieldNames, nil
	}
	return "", fmt.Errorf("invalid field name format: '%s' (options are '%s', '%s')", value, SnakeCaseFieldNames, CamelCaseFieldNames)
}

// SQLDatabase is a Database backed by gorm.
type SQLDatabase struct {
	db         *gorm.DB
	fieldNames FieldNameFormat
}

// NewSQLDatabase creates a Database on the given gorm database, presenting result field names in the given format.
func NewSQLDatabase(db *gorm.DB, fieldNames FieldNameFormat) *SQLDatabase {
	return &SQLDatabase{
		db:         db,
		fieldNames: fieldNames,
	}
}

// Connect acquires a single connection from the pool for the duration of the receiver.
func (d *SQLDatabase) Connect(ctx context.Context, receiver func(conn Connection) error) error {
	return d.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return receiver(sqlConnection{
			tx:         tx.Session(&gorm.Session{NewDB: true}),
			fieldNames: d.fieldNames,
		})
	})
}

type sqlConnection struct {
	tx         *gorm.DB
	fieldNames FieldNameFormat
}

func (c sqlConnection) MaybeOne(sql string, values ...interface{}) (Row, error) {
	rows, err := c.Many(sql, values...)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, fmt.Errorf("%w (rows=%d)", ErrMultipleRows, len(rows))
	}
}

func (c sqlConnection) Many(sql string, values ...interface{}) ([]Row, error) {
	var results []map[string]interface{}
	if err := c.tx.Raw(sql, values...).Scan(&results).Error; err != nil {
		return nil, err
	}
	rows := make([]Row, len(results))
	for i, result := range results {
		rows[i] = c.present(result)
	}
	return rows, nil
}

func (c sqlConnection) Exec(sql string, values ...interface{}) (int64, error) {
	result := c.tx.Exec(sql, values...)
	return result.RowsAffected, result.Error
}

func (c sqlConnection) Upsert(table Identifier, conflictColumns []string, values map[string]interface{}, updateColumns []string) error {
	onConflict := clause.OnConflict{
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}
	for _, column := range conflictColumns {
		onConflict.Columns = append(onConflict.Columns, clause.Column{Name: column})
	}
	// gorm quotes every dot-separated part of the table name
	return c.tx.Table(table.String()).Clauses(onConflict).Create(values).Error
}

func (c sqlConnection) Dialect() string {
	return c.tx.Dialector.Name()
}

func (c sqlConnection) present(result map[string]interface{}) Row {
	row := make(Row, len(result))
	for name, value := range result {
		if c.fieldNames == CamelCaseFieldNames {
			name = SnakeToCamel(name)
		}
		row[name] = value
	}
	return row
}
