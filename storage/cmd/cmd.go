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

package cmd

import (
	"github.com/nuts-foundation/go-sqlsession/storage"
	"github.com/spf13/pflag"
)

// FlagSet contains flags relevant for the engine
func FlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("storage", pflag.ContinueOnError)
	defs := storage.DefaultConfig()
	flagSet.String("storage.sql.connection", defs.SQL.ConnectionString, "Connection string for the SQL database (sqlite:<file>, postgres://... or mysql://...). "+
		"If not set, a SQLite database in the data directory is used.")
	flagSet.String("storage.sql.fieldnames", defs.SQL.FieldNames, "Naming convention in which field names of query results are presented (snake_case or camelCase).")
	flagSet.Bool("storage.sql.migrate", defs.SQL.Migrate, "Whether to create/migrate the session table on startup.")
	flagSet.Uint("storage.sql.connectattempts", defs.SQL.ConnectAttempts, "Number of attempts to connect to the SQL database on startup.")
	flagSet.Duration("storage.sql.slowquerythreshold", defs.SQL.SlowQueryThreshold, "Queries taking longer than this duration are logged as warning, formatted as Golang duration (e.g. 200ms, 1s).")
	return flagSet
}
