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
	"path"
	"testing"

	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/stretchr/testify/require"
)

// NewTestStorageEngine creates a started storage engine backed by a SQLite database in a temporary directory.
// The engine is shut down when the test completes.
func NewTestStorageEngine(t testing.TB) Engine {
	dataDir := t.TempDir()
	result := New()
	result.(*engine).config.SQL.ConnectionString = sqlitePrefix + path.Join(dataDir, sqliteFileName)
	require.NoError(t, result.Configure(core.TestServerConfig(core.ServerConfig{Datadir: dataDir})))
	require.NoError(t, result.Start())
	t.Cleanup(func() {
		_ = result.Shutdown()
	})
	return result
}
