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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestParseFieldNameFormat(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		format, err := ParseFieldNameFormat("")

		require.NoError(t, err)
		assert.Equal(t, SnakeCaseFieldNames, format)
	})
	t.Run("camelCase", func(t *testing.T) {
		format, err := ParseFieldNameFormat("camelCase")

		require.NoError(t, err)
		assert.Equal(t, CamelCaseFieldNames, format)
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := ParseFieldNameFormat("PascalCase")

		assert.EqualError(t, err, "invalid field name format: 'PascalCase' (options are 'snake_case', 'camelCase')")
	})
}

func TestSQLDatabase(t *testing.T) {
	ctx := context.Background()
	storageEngine := NewTestStorageEngine(t)
	table, _ := NormalizeIdentifier(Name("session"))
	snakeCase := NewSQLDatabase(storageEngine.GetSQLDatabase(), SnakeCaseFieldNames)
	camelCase := NewSQLDatabase(storageEngine.GetSQLDatabase(), CamelCaseFieldNames)
	insert := func(t *testing.T, sid string) {
		err := snakeCase.Connect(ctx, func(conn Connection) error {
			_, err := conn.Exec("INSERT INTO ? (sid, data) VALUES (?, ?)", table.Table(), sid, `{"user":"`+sid+`"}`)
			return err
		})
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_ = snakeCase.Connect(ctx, func(conn Connection) error {
			_, err := conn.Exec("DELETE FROM ?", table.Table())
			return err
		})
	})
	insert(t, "a")
	insert(t, "b")

	t.Run("MaybeOne", func(t *testing.T) {
		t.Run("no row", func(t *testing.T) {
			var row Row
			err := snakeCase.Connect(ctx, func(conn Connection) (err error) {
				row, err = conn.MaybeOne("SELECT sid FROM ? WHERE sid = ?", table.Table(), "unknown")
				return
			})

			require.NoError(t, err)
			assert.Nil(t, row)
		})
		t.Run("one row", func(t *testing.T) {
			var row Row
			err := snakeCase.Connect(ctx, func(conn Connection) (err error) {
				row, err = conn.MaybeOne("SELECT sid, expires_at FROM ? WHERE sid = ?", table.Table(), "a")
				return
			})

			require.NoError(t, err)
			assert.Equal(t, "a", row["sid"])
			assert.Contains(t, row, "expires_at")
		})
		t.Run("multiple rows", func(t *testing.T) {
			err := snakeCase.Connect(ctx, func(conn Connection) error {
				_, err := conn.MaybeOne("SELECT sid FROM ?", table.Table())
				return err
			})

			assert.ErrorIs(t, err, ErrMultipleRows)
			assert.EqualError(t, err, "query returned more than one row (rows=2)")
		})
		t.Run("camelCase field names", func(t *testing.T) {
			var row Row
			err := camelCase.Connect(ctx, func(conn Connection) (err error) {
				row, err = conn.MaybeOne("SELECT sid, expires_at, created_at FROM ? WHERE sid = ?", table.Table(), "a")
				return
			})

			require.NoError(t, err)
			assert.Contains(t, row, "expiresAt")
			assert.Contains(t, row, "createdAt")
			assert.NotContains(t, row, "expires_at")
		})
	})
	t.Run("Many", func(t *testing.T) {
		var rows []Row
		err := snakeCase.Connect(ctx, func(conn Connection) (err error) {
			rows, err = conn.Many("SELECT sid FROM ? ORDER BY sid", table.Table())
			return
		})

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "a", rows[0]["sid"])
		assert.Equal(t, "b", rows[1]["sid"])
	})
	t.Run("Exec returns affected rows", func(t *testing.T) {
		var affected int64
		err := snakeCase.Connect(ctx, func(conn Connection) (err error) {
			affected, err = conn.Exec("UPDATE ? SET data = NULL WHERE sid = ?", table.Table(), "unknown")
			return
		})

		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})
	t.Run("quoted columns", func(t *testing.T) {
		columns, err := BuildColumnList(struct {
			Sid  string
			Data string
		}{})
		require.NoError(t, err)

		var rows []Row
		err = snakeCase.Connect(ctx, func(conn Connection) (err error) {
			rows, err = conn.Many("SELECT ? FROM ? WHERE sid = ?", columns, table.Table(), "b")
			return
		})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "b", rows[0]["sid"])
		assert.Equal(t, `{"user":"b"}`, rows[0]["data"])
	})
	t.Run("Upsert", func(t *testing.T) {
		upsert := func(data string) error {
			return snakeCase.Connect(ctx, func(conn Connection) error {
				return conn.Upsert(table, []string{"sid"}, map[string]interface{}{"sid": "c", "data": data}, []string{"data"})
			})
		}
		readData := func() interface{} {
			var row Row
			_ = snakeCase.Connect(ctx, func(conn Connection) (err error) {
				row, err = conn.MaybeOne("SELECT data FROM ? WHERE sid = ?", table.Table(), "c")
				return
			})
			return row["data"]
		}

		require.NoError(t, upsert("first"))
		assert.Equal(t, "first", readData())
		require.NoError(t, upsert("second"))
		assert.Equal(t, "second", readData())
	})
	t.Run("Upsert into schema qualified table", func(t *testing.T) {
		qualified, err := NormalizeIdentifier(Names{"main", "session"})
		require.NoError(t, err)

		err = snakeCase.Connect(ctx, func(conn Connection) error {
			return conn.Upsert(qualified, []string{"sid"}, map[string]interface{}{"sid": "d", "data": "qualified"}, []string{"data"})
		})

		require.NoError(t, err)
		var row Row
		_ = snakeCase.Connect(ctx, func(conn Connection) (err error) {
			row, err = conn.MaybeOne("SELECT data FROM ? WHERE sid = ?", qualified.Table(), "d")
			return
		})
		assert.Equal(t, "qualified", row["data"])
	})
	t.Run("Dialect", func(t *testing.T) {
		var dialect string
		_ = snakeCase.Connect(ctx, func(conn Connection) error {
			dialect = conn.Dialect()
			return nil
		})

		assert.Equal(t, "sqlite", dialect)
	})
	t.Run("receiver error is returned", func(t *testing.T) {
		expected := errors.New("failed")

		err := snakeCase.Connect(ctx, func(conn Connection) error {
			return expected
		})

		assert.Equal(t, expected, err)
	})
	t.Run("query error", func(t *testing.T) {
		err := snakeCase.Connect(ctx, func(conn Connection) error {
			_, err := conn.Many("SELECT * FROM ?", clause.Table{Name: "does_not_exist"})
			return err
		})

		assert.ErrorContains(t, err, "no such table")
	})
}
