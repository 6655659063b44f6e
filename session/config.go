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
	"errors"
	"time"
)

// DefaultConfig returns the default configuration of the session engine.
func DefaultConfig() Config {
	return Config{
		TTL:           DefaultTTLSeconds,
		PruneInterval: 10 * time.Minute,
	}
}

// Config specifies the configuration of the session engine.
type Config struct {
	// TTL is the time-to-live in seconds of sessions stored without explicit expiry.
	TTL int `koanf:"ttl"`
	// Table is the (optionally schema qualified) name of the session table, e.g. public.session.
	// If empty, public.session is used on PostgreSQL and session on other databases.
	Table string `koanf:"table"`
	// PruneInterval is the interval at which expired sessions are deleted. 0 disables pruning.
	PruneInterval time.Duration `koanf:"pruneinterval"`
	// PruneGrace is how long after expiry sessions are kept before they are pruned.
	PruneGrace time.Duration `koanf:"prunegrace"`
}

func (c Config) validate() error {
	if c.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.PruneInterval < 0 {
		return errors.New("session.pruneinterval can't be negative")
	}
	if c.PruneGrace < 0 {
		return errors.New("session.prunegrace can't be negative")
	}
	return nil
}
