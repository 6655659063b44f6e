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

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/nuts-foundation/go-sqlsession/session/log"
	"github.com/nuts-foundation/go-sqlsession/storage"
)

// ModuleName is the name of the session engine.
const ModuleName = "Session"

var _ core.Named = (*Engine)(nil)
var _ core.Injectable = (*Engine)(nil)
var _ core.Configurable = (*Engine)(nil)
var _ core.Runnable = (*Engine)(nil)
var _ core.Diagnosable = (*Engine)(nil)

// NewEngine creates the session engine, which stores sessions in the database of the given storage engine.
func NewEngine(storageEngine storage.Engine) *Engine {
	return &Engine{
		config:        DefaultConfig(),
		storageEngine: storageEngine,
	}
}

// Engine manages the session store and prunes expired sessions in the background.
type Engine struct {
	config        Config
	storageEngine storage.Engine
	table         storage.Identifier
	store         *Store
	ctx           context.Context
	cancel        context.CancelFunc
	routines      *sync.WaitGroup
}

func (e *Engine) Name() string {
	return ModuleName
}

func (e *Engine) ConfigKey() string {
	return "session"
}

func (e *Engine) Config() interface{} {
	return &e.config
}

// Configure validates the configuration.
func (e *Engine) Configure(_ core.ServerConfig) error {
	if err := e.config.validate(); err != nil {
		return err
	}
	if e.config.Table != "" {
		table, err := storage.ParseIdentifier(e.config.Table)
		if err != nil {
			return fmt.Errorf("invalid session.table: %w", err)
		}
		e.table = table
	}
	return nil
}

// Start creates the session store on the database of the storage engine, which must have been started before.
func (e *Engine) Start() error {
	db := e.storageEngine.GetDatabase()
	if db == nil {
		return errors.New("storage engine not started")
	}
	table := e.table
	if table.IsZero() {
		table = defaultTable(e.storageEngine.GetSQLDatabase().Dialector.Name())
	}
	metrics, err := NewMetrics()
	if err != nil {
		return err
	}
	e.store, err = NewStore(db, WithTTL(e.config.TTL), WithTable(table), WithMetrics(metrics))
	if err != nil {
		return err
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.routines = new(sync.WaitGroup)
	if e.config.PruneInterval > 0 {
		e.routines.Add(1)
		go func() {
			defer e.routines.Done()
			e.prune(e.config.PruneInterval)
		}()
	}
	log.Logger().
		WithField(core.LogFieldTable, table.String()).
		Infof("Session store started (ttl=%s, pruneinterval=%s)", e.store.TTL(), e.config.PruneInterval)
	return nil
}

// Shutdown stops pruning.
func (e *Engine) Shutdown() error {
	if e.cancel != nil {
		e.cancel()
		e.routines.Wait()
		e.cancel = nil
	}
	return nil
}

// Store returns the session store. It is only available after the engine has been started.
func (e *Engine) Store() *Store {
	return e.store
}

func (e *Engine) Diagnostics() []core.DiagnosticResult {
	if e.store == nil {
		return nil
	}
	result := []core.DiagnosticResult{
		&core.GenericDiagnosticResult{Title: "session_table", Value: e.store.Table().String()},
		&core.GenericDiagnosticResult{Title: "session_ttl", Value: e.store.TTL().String()},
	}
	if count, err := e.store.Length(context.Background()); err == nil {
		result = append(result, &core.GenericDiagnosticResult{Title: "session_count", Value: count})
	} else {
		log.Logger().WithError(err).Warn("Unable to count sessions")
	}
	return result
}

func (e *Engine) prune(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			deleted, err := e.store.DeleteExpired(e.ctx, e.config.PruneGrace)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Logger().WithError(err).Error("Failed to prune expired sessions")
				}
				continue
			}
			if deleted > 0 {
				log.Logger().Debugf("Pruned %d expired session(s)", deleted)
			}
		}
	}
}

// defaultTable returns the default session table for the given SQL dialect.
// Only PostgreSQL has a public schema by default.
func defaultTable(dialect string) storage.Identifier {
	if dialect == "postgres" {
		return DefaultTableIdentifier()
	}
	identifier, _ := storage.NormalizeIdentifier(storage.Name(DefaultTableName))
	return identifier
}
