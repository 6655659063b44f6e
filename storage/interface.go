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

	"github.com/nuts-foundation/go-sqlsession/core"
	"gorm.io/gorm"
)

// Engine defines the interface for the storage engine.
type Engine interface {
	core.Engine
	core.Named
	core.Injectable
	core.Configurable
	core.Runnable

	// GetSQLDatabase returns the underlying gorm database. It is only available after the engine has been started.
	GetSQLDatabase() *gorm.DB
	// GetDatabase returns the Database giving scoped connection access. It is only available after the engine has been started.
	GetDatabase() Database
}

// Row is a single result row, keyed by the field names as presented by the Database.
type Row map[string]interface{}

// Database gives scoped access to a connection of a SQL database.
type Database interface {
	// Connect acquires a connection and passes it to the receiver.
	// The connection is released when the receiver returns, regardless of its outcome.
	// The error returned by the receiver is passed through.
	Connect(ctx context.Context, receiver func(conn Connection) error) error
}

// Connection executes parameterized statements on a single, acquired database connection.
// Values are bound as query parameters using '?' placeholders. Identifiers passed as clause.Table, clause.Column or
// clause.Expr values are quoted by the database dialect.
type Connection interface {
	// MaybeOne executes the query and returns its result row. It returns nil if no row matched,
	// and ErrMultipleRows if more than one row matched.
	MaybeOne(sql string, values ...interface{}) (Row, error)
	// Many executes the query and returns all result rows.
	Many(sql string, values ...interface{}) ([]Row, error)
	// Exec executes the statement and returns the number of affected rows.
	Exec(sql string, values ...interface{}) (int64, error)
	// Upsert inserts the given values into the table as a single statement.
	// If a row conflicts on the conflictColumns, the updateColumns of that row are updated instead.
	Upsert(table Identifier, conflictColumns []string, values map[string]interface{}, updateColumns []string) error
	// Dialect returns the name of the SQL dialect (e.g. postgres, sqlite, mysql).
	Dialect() string
}
