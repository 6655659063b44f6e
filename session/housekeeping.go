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
	"time"

	"github.com/nuts-foundation/go-sqlsession/storage"
)

// All returns the data of every active session, keyed by session ID.
// Expired sessions and sessions without data are left out, as Get would.
func (s *Store) All(ctx context.Context) (map[string]Data, error) {
	result := make(map[string]Data)
	err := s.db.Connect(ctx, func(conn storage.Connection) error {
		rows, err := conn.Many("SELECT ? FROM ?", s.recordColumns, s.table.Table())
		if err != nil {
			return err
		}
		now := nowFunc().UnixMilli()
		for _, row := range rows {
			universal, err := newUniversalRow(row)
			if err != nil {
				return err
			}
			record, err := universal.toRecord()
			if err != nil {
				return err
			}
			if record.Data == nil || (record.ExpiresAt != nil && *record.ExpiresAt <= now) {
				continue
			}
			result[record.Sid] = record.Data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Length returns the number of sessions in the table, including expired ones.
func (s *Store) Length(ctx context.Context) (int64, error) {
	var result int64
	err := s.db.Connect(ctx, func(conn storage.Connection) error {
		row, err := conn.MaybeOne("SELECT COUNT(*) AS count FROM ?", s.table.Table())
		if err != nil || row == nil {
			return err
		}
		result, err = toInt64(row["count"])
		return err
	})
	return result, err
}

// Clear deletes all sessions.
func (s *Store) Clear(ctx context.Context) error {
	return s.db.Connect(ctx, func(conn storage.Connection) error {
		_, err := conn.Exec("DELETE FROM ?", s.table.Table())
		return err
	})
}

// DeleteExpired deletes the sessions that expired more than the grace period ago, returning how many were deleted.
// Sessions without expiry are kept.
func (s *Store) DeleteExpired(ctx context.Context, grace time.Duration) (int64, error) {
	cutoff := time.UnixMilli(nowFunc().Add(-grace).UnixMilli()).UTC()
	var deleted int64
	err := s.db.Connect(ctx, func(conn storage.Connection) (err error) {
		deleted, err = conn.Exec("DELETE FROM ? WHERE expires_at < ?", s.table.Table(), cutoff)
		return
	})
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.pruned.Add(float64(deleted))
	}
	return deleted, nil
}
