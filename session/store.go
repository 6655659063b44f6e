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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/nuts-foundation/go-sqlsession/session/log"
	"github.com/nuts-foundation/go-sqlsession/storage"
	"gorm.io/gorm/clause"
)

const (
	// DefaultTTLSeconds is the time-to-live of a session when no explicit expiry is given.
	DefaultTTLSeconds = 86400
	// DefaultTableSchema is the schema of the default session table.
	DefaultTableSchema = "public"
	// DefaultTableName is the name of the default session table.
	DefaultTableName = "session"
)

// maxTimestampMillis is the last millisecond of year 9999, the latest instant all supported databases can store.
const maxTimestampMillis = 253402300799999

var nowFunc = time.Now

// DefaultTableIdentifier returns the identifier of the default session table (public.session).
func DefaultTableIdentifier() storage.Identifier {
	identifier, _ := storage.NormalizeIdentifier(storage.Names{DefaultTableSchema, DefaultTableName})
	return identifier
}

// Data is the session payload. It's stored as JSON object and not interpreted by the store.
type Data map[string]interface{}

// Session is an active session as returned by Store.Get.
type Session struct {
	Data Data
	// ExpiresAt is the expiry in milliseconds since the Unix epoch, or nil if the session never expires.
	ExpiresAt *int64
}

// Expiry returns the expiry as time, or the zero time if the session never expires.
func (s Session) Expiry() time.Time {
	if s.ExpiresAt == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.ExpiresAt)
}

// Record is a complete row of the session table. Timestamps are in milliseconds since the Unix epoch.
type Record struct {
	ID        int64  `json:"id"`
	Sid       string `json:"sid"`
	Data      Data   `json:"data"`
	ExpiresAt *int64 `json:"expiresAt"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// sessionColumns lists the columns selected by Get.
type sessionColumns struct {
	Data      Data
	ExpiresAt *int64
}

// Option configures a Store.
type Option func(s *Store) error

// WithTTL sets the time-to-live of sessions without explicit expiry. It must be positive.
func WithTTL(seconds int) Option {
	return func(s *Store) error {
		if seconds <= 0 {
			return fmt.Errorf("TTL must be positive (ttl=%d)", seconds)
		}
		s.ttl = time.Duration(seconds) * time.Second
		return nil
	}
}

// WithTable sets the table sessions are stored in. Names are used as given, not case-converted.
func WithTable(table storage.IdentifierInput) Option {
	return func(s *Store) error {
		identifier, err := storage.NormalizeIdentifier(table)
		if err != nil {
			return err
		}
		s.table = identifier
		return nil
	}
}

// WithMetrics makes the store count its operations.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Store) error {
		s.metrics = metrics
		return nil
	}
}

// Store persists sessions in a SQL table, keyed by session ID.
// It holds no mutable state, so it can be used concurrently.
type Store struct {
	db      storage.Database
	ttl     time.Duration
	table   storage.Identifier
	metrics *Metrics
	// getColumns and recordColumns are the column lists of Get and Find
	getColumns    clause.Expr
	recordColumns clause.Expr
}

// NewStore creates a Store on the given database. It doesn't access the database.
func NewStore(db storage.Database, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	result := &Store{
		db:    db,
		ttl:   DefaultTTLSeconds * time.Second,
		table: DefaultTableIdentifier(),
	}
	for _, opt := range opts {
		if err := opt(result); err != nil {
			return nil, err
		}
	}
	var err error
	if result.getColumns, err = storage.BuildColumnList(sessionColumns{}); err != nil {
		return nil, err
	}
	if result.recordColumns, err = storage.BuildColumnList(Record{}); err != nil {
		return nil, err
	}
	return result, nil
}

// Table returns the identifier of the session table.
func (s *Store) Table() storage.Identifier {
	return s.table
}

// TTL returns the time-to-live of sessions without explicit expiry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the session with the given ID. It returns nil if there's no such session,
// the session has no data or it has expired.
func (s *Store) Get(ctx context.Context, sid string) (*Session, error) {
	var result *Session
	err := s.db.Connect(ctx, func(conn storage.Connection) error {
		row, err := conn.MaybeOne("SELECT ? FROM ? WHERE sid = ?", s.getColumns, s.table.Table(), sid)
		if err != nil || row == nil {
			return err
		}
		universal, err := newUniversalRow(row)
		if err != nil {
			return err
		}
		value, err := universal.toSessionValue()
		if err != nil {
			return err
		}
		if value.data == nil {
			return nil
		}
		if value.expiresAt != nil && *value.expiresAt <= nowFunc().UnixMilli() {
			log.Logger().WithField(core.LogFieldSessionID, sid).Trace("Session expired")
			return nil
		}
		result = &Session{Data: value.data, ExpiresAt: value.expiresAt}
		return nil
	})
	s.observe("get", err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Set creates or replaces the session with the given ID in a single statement.
// If expiresAt (milliseconds since the Unix epoch) is 0, the session expires after the TTL.
func (s *Store) Set(ctx context.Context, sid string, data Data, expiresAt int64) error {
	err := s.set(ctx, sid, data, expiresAt)
	s.observe("set", err)
	return err
}

func (s *Store) set(ctx context.Context, sid string, data Data, expiresAt int64) error {
	expiry, err := s.ComputeExpiry(expiresAt)
	if err != nil {
		return err
	}
	var storedData interface{}
	if data != nil {
		serialized, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("session data is not JSON serializable: %w", err)
		}
		storedData = string(serialized)
	}
	return s.db.Connect(ctx, func(conn storage.Connection) error {
		values := map[string]interface{}{
			"sid":        sid,
			"data":       storedData,
			"expires_at": expiry,
		}
		if err := conn.Upsert(s.table, []string{"sid"}, values, []string{"data", "expires_at"}); err != nil {
			return err
		}
		log.Logger().WithField(core.LogFieldSessionID, sid).Trace("Session stored")
		return nil
	})
}

// Destroy deletes the session with the given ID. Deleting a session that doesn't exist is not an error.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	err := s.db.Connect(ctx, func(conn storage.Connection) error {
		_, err := conn.Exec("DELETE FROM ? WHERE sid = ?", s.table.Table(), sid)
		return err
	})
	s.observe("destroy", err)
	return err
}

// Touch updates the expiry of the session with the given ID, leaving its data as-is.
// If expiresAt (milliseconds since the Unix epoch) is 0, the session expires after the TTL.
// It returns whether a session with the given ID existed.
func (s *Store) Touch(ctx context.Context, sid string, expiresAt int64) (bool, error) {
	var affected int64
	expiry, err := s.ComputeExpiry(expiresAt)
	if err == nil {
		err = s.db.Connect(ctx, func(conn storage.Connection) (err error) {
			affected, err = conn.Exec("UPDATE ? SET expires_at = ? WHERE sid = ?", s.table.Table(), expiry, sid)
			return
		})
	}
	s.observe("touch", err)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Find returns the complete record of the session with the given ID, regardless of its data or expiry.
// It returns nil if there's no such session.
func (s *Store) Find(ctx context.Context, sid string) (*Record, error) {
	var result *Record
	err := s.db.Connect(ctx, func(conn storage.Connection) error {
		row, err := conn.MaybeOne("SELECT ? FROM ? WHERE sid = ?", s.recordColumns, s.table.Table(), sid)
		if err != nil || row == nil {
			return err
		}
		universal, err := newUniversalRow(row)
		if err != nil {
			return err
		}
		result, err = universal.toRecord()
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ComputeExpiry returns the instant a session expires: the given explicit expiry in milliseconds since the Unix epoch,
// or now plus the TTL if it's 0. The result is in UTC with millisecond precision.
func (s *Store) ComputeExpiry(explicitMillis int64) (time.Time, error) {
	if explicitMillis == 0 {
		return time.UnixMilli(nowFunc().Add(s.ttl).UnixMilli()).UTC(), nil
	}
	if explicitMillis < 0 || explicitMillis > maxTimestampMillis {
		return time.Time{}, fmt.Errorf("%w: %d is out of range", ErrInvalidTimestamp, explicitMillis)
	}
	return time.UnixMilli(explicitMillis).UTC(), nil
}

// ParseTimestamp parses a textual expiry in milliseconds since the Unix epoch. An empty string yields 0 (use the TTL).
func ParseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, core.WrapError(ErrInvalidTimestamp, err)
	}
	if result < 0 || result > maxTimestampMillis {
		return 0, fmt.Errorf("%w: %d is out of range", ErrInvalidTimestamp, result)
	}
	return result, nil
}

func (s *Store) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.observe(operation, err)
	}
}
