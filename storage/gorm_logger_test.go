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
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_gormLogrusLogger_Trace(t *testing.T) {
	hook := &test.Hook{}
	underlying := logrus.New()
	underlying.SetLevel(logrus.TraceLevel)
	underlying.AddHook(hook)
	logger := gormLogrusLogger{
		underlying:    underlying.WithFields(nil),
		slowThreshold: 10 * time.Second,
	}
	now := time.Now()
	nowFunc = func() time.Time {
		return now
	}
	t.Cleanup(func() {
		nowFunc = time.Now
	})
	query := func() (sql string, rowsAffected int64) {
		return "SELECT 1", 1
	}
	t.Run("execution error", func(t *testing.T) {
		defer hook.Reset()
		logger.Trace(nil, now.Add(-time.Second), query, assert.AnError)
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "Query failed (took 1s): SELECT 1", hook.LastEntry().Message)
	})
	t.Run("normal query", func(t *testing.T) {
		defer hook.Reset()
		logger.Trace(nil, now.Add(-time.Second), query, nil)
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
		assert.Equal(t, "Query (took 1s, rows=1): SELECT 1", hook.LastEntry().Message)
	})
	t.Run("record not found (error is ignored)", func(t *testing.T) {
		defer hook.Reset()
		logger.Trace(nil, now.Add(-time.Second), query, gorm.ErrRecordNotFound)
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, "Query (took 1s, rows=1): SELECT 1", hook.LastEntry().Message)
	})
	t.Run("slow query", func(t *testing.T) {
		defer hook.Reset()
		logger.Trace(nil, now.Add(-20*time.Second), query, nil)
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, "Slow query (took 20s, rows=1): SELECT 1", hook.LastEntry().Message)
	})
	t.Run("debug disabled", func(t *testing.T) {
		defer hook.Reset()
		underlying.SetLevel(logrus.InfoLevel)
		defer underlying.SetLevel(logrus.TraceLevel)
		logger.Trace(nil, now.Add(-time.Second), query, nil)
		assert.Empty(t, hook.Entries)
	})
}

func Test_gooseLogger(t *testing.T) {
	hook := &test.Hook{}
	underlying := logrus.New()
	underlying.AddHook(hook)
	logger := gooseLogger{underlying: underlying.WithFields(nil)}

	logger.Printf("OK   %s (%v)\n", "001_session.sql", time.Millisecond)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "OK   001_session.sql (1ms)", hook.LastEntry().Message)
}
