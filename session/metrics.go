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

	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics counts session store operations.
type Metrics struct {
	operations *prometheus.CounterVec
	pruned     prometheus.Counter
}

// NewMetrics creates the session metrics and registers them on the default prometheus registry.
// If they were registered before, the registered collectors are reused.
func NewMetrics() (*Metrics, error) {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "session",
		Name:      "operations_total",
		Help:      "Number of session store operations, by operation and outcome.",
	}, []string{"operation", "outcome"})
	pruned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "session",
		Name:      "pruned_total",
		Help:      "Number of expired sessions deleted by pruning.",
	})
	var err error
	if operations, err = register(operations); err != nil {
		return nil, err
	}
	if pruned, err = register(pruned); err != nil {
		return nil, err
	}
	return &Metrics{
		operations: operations,
		pruned:     pruned,
	}, nil
}

func register[T prometheus.Collector](collector T) (T, error) {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

func (m *Metrics) observe(operation string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}
