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
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ logger.Interface = (*gormLogrusLogger)(nil)
var _ goose.Logger = (*gooseLogger)(nil)
var nowFunc = time.Now

// gormLogrusLogger is a logger that uses logrus as underlying logger for gorm.
// The log level is determined by the underlying logger.
type gormLogrusLogger struct {
	underlying    *logrus.Entry
	slowThreshold time.Duration
}

func (g gormLogrusLogger) LogMode(_ logger.LogLevel) logger.Interface {
	return g
}

func (g gormLogrusLogger) Info(_ context.Context, msg string, args ...interface{}) {
	g.underlying.Infof(msg, args...)
}

func (g gormLogrusLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	g.underlying.Warnf(msg, args...)
}

func (g gormLogrusLogger) Error(_ context.Context, msg string, args ...interface{}) {
	g.underlying.Errorf(msg, args...)
}

// Trace logs failed queries and queries exceeding the slow threshold as warning, others on DEBUG.
// Queries that didn't find a record aren't considered failed.
func (g gormLogrusLogger) Trace(_ context.Context, begin time.Time, fn func() (sql string, rowsAffected int64), err error) {
	elapsed := nowFunc().Sub(begin)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, _ := fn()
		g.underlying.WithError(err).Warnf("Query failed (took %s): %s", elapsed, sql)
		return
	}
	if g.slowThreshold > 0 && elapsed >= g.slowThreshold {
		sql, rows := fn()
		g.underlying.Warnf("Slow query (took %s, rows=%d): %s", elapsed, rows, sql)
		return
	}
	if g.underlying.Logger.IsLevelEnabled(logrus.DebugLevel) {
		sql, rows := fn()
		g.underlying.Debugf("Query (took %s, rows=%d): %s", elapsed, rows, sql)
	}
}

// gooseLogger logs schema migration progress through logrus.
type gooseLogger struct {
	underlying *logrus.Entry
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.underlying.Fatalf(strings.TrimSpace(format), v...)
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.underlying.Infof(strings.TrimSpace(format), v...)
}
