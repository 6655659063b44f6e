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
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/nuts-foundation/go-sqlsession/storage/log"
	nutssqlite "github.com/nuts-foundation/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	sqliteFileName   = "sqlite.db"
	sqlitePrefix     = "sqlite:"
	postgresPrefix   = "postgres://"
	postgresqlPrefix = "postgresql://"
	mysqlPrefix      = "mysql://"
)

//go:embed sql_migrations
var sqlMigrationsFS embed.FS

// New creates a new instance of the storage engine.
func New() Engine {
	return &engine{
		config: DefaultConfig(),
	}
}

type engine struct {
	config   Config
	datadir  string
	sqlDB    *gorm.DB
	database *SQLDatabase
}

// Name returns the name of the storage engine.
func (e *engine) Name() string {
	return "Storage"
}

// ConfigKey returns the key under which the engine's config is found.
func (e *engine) ConfigKey() string {
	return "storage"
}

// Config returns a pointer to the actual config of the engine.
func (e *engine) Config() interface{} {
	return &e.config
}

// Configure validates the config and resolves the connection string.
func (e *engine) Configure(config core.ServerConfig) error {
	if err := e.config.validate(); err != nil {
		return err
	}
	e.datadir = config.Datadir
	if e.config.SQL.ConnectionString == "" {
		e.config.SQL.ConnectionString = sqlitePrefix + path.Join(e.datadir, sqliteFileName)
	}
	if _, _, err := parseConnectionString(e.config.SQL.ConnectionString); err != nil {
		return err
	}
	return nil
}

// Start connects to the SQL database and migrates it, if enabled.
func (e *engine) Start() error {
	if err := e.initSQLDatabase(); err != nil {
		return fmt.Errorf("failed to initialize SQL database: %w", err)
	}
	return nil
}

// Shutdown closes the SQL database.
func (e *engine) Shutdown() error {
	if e.sqlDB == nil {
		return nil
	}
	underlyingDB, err := e.sqlDB.DB()
	if err != nil {
		return err
	}
	if err := underlyingDB.Close(); err != nil {
		log.Logger().WithError(err).Error("Failed to close SQL database")
		return err
	}
	e.sqlDB = nil
	e.database = nil
	return nil
}

func (e *engine) GetSQLDatabase() *gorm.DB {
	return e.sqlDB
}

func (e *engine) GetDatabase() Database {
	if e.database == nil {
		return nil
	}
	return e.database
}

// Diagnostics returns the dialect and connection pool statistics of the SQL database.
func (e *engine) Diagnostics() []core.DiagnosticResult {
	if e.sqlDB == nil {
		return nil
	}
	result := []core.DiagnosticResult{
		&core.GenericDiagnosticResult{Title: "sql_dialect", Value: e.sqlDB.Dialector.Name()},
	}
	if underlyingDB, err := e.sqlDB.DB(); err == nil {
		stats := underlyingDB.Stats()
		result = append(result,
			&core.GenericDiagnosticResult{Title: "sql_open_connections", Value: stats.OpenConnections},
			&core.GenericDiagnosticResult{Title: "sql_in_use_connections", Value: stats.InUse},
		)
	}
	return result
}

func (e *engine) initSQLDatabase() error {
	dialect, dsn, err := parseConnectionString(e.config.SQL.ConnectionString)
	if err != nil {
		return err
	}
	gormConfig := &gorm.Config{
		Logger: gormLogrusLogger{
			underlying:    log.Logger(),
			slowThreshold: e.config.SQL.SlowQueryThreshold,
		},
	}
	connectAttempts := e.config.SQL.ConnectAttempts
	var dialector gorm.Dialector
	var gooseDialect string
	switch dialect {
	case "sqlite":
		// SQLite is a file, retrying won't help
		connectAttempts = 1
		sqliteDB, err := sql.Open(nutssqlite.DriverName, dsn)
		if err != nil {
			return err
		}
		// SQLite allows a single writer, so all queries are executed sequentially.
		sqliteDB.SetMaxOpenConns(1)
		dialector = sqlite.Dialector{Conn: sqliteDB}
		gooseDialect = "sqlite3"
	case "postgres":
		dialector = postgres.Open(dsn)
		gooseDialect = "postgres"
	case "mysql":
		dialector = mysql.Open(dsn)
		gooseDialect = "mysql"
	}
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return err
	}
	underlyingDB, err := db.DB()
	if err != nil {
		return err
	}
	err = retry.Do(func() error {
		return underlyingDB.Ping()
	},
		retry.Attempts(connectAttempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Logger().WithError(err).Infof("Unable to connect to SQL database, retrying (attempt %d of %d)", n+1, connectAttempts)
		}),
	)
	if err != nil {
		_ = underlyingDB.Close()
		return err
	}
	if e.config.SQL.Migrate {
		if err = migrate(underlyingDB, gooseDialect, dialect); err != nil {
			_ = underlyingDB.Close()
			return err
		}
	}
	fieldNames, _ := ParseFieldNameFormat(e.config.SQL.FieldNames)
	e.sqlDB = db
	e.database = NewSQLDatabase(db, fieldNames)
	log.Logger().Debugf("Connected to %s database", dialect)
	return nil
}

func migrate(db *sql.DB, gooseDialect string, dialect string) error {
	goose.SetBaseFS(sqlMigrationsFS)
	goose.SetLogger(gooseLogger{underlying: log.Logger()})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return goose.UpContext(context.Background(), db, path.Join("sql_migrations", dialect))
}

// parseConnectionString returns the dialect and the driver specific DSN for the given connection string.
func parseConnectionString(connectionString string) (string, string, error) {
	switch {
	case strings.HasPrefix(connectionString, sqlitePrefix):
		return "sqlite", strings.TrimPrefix(connectionString, sqlitePrefix), nil
	case strings.HasPrefix(connectionString, postgresPrefix), strings.HasPrefix(connectionString, postgresqlPrefix):
		return "postgres", connectionString, nil
	case strings.HasPrefix(connectionString, mysqlPrefix):
		return "mysql", strings.TrimPrefix(connectionString, mysqlPrefix), nil
	}
	return "", "", errors.New("unsupported SQL database connection string (supported: sqlite:, postgres://, mysql://)")
}
