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

package core

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace is the namespace of all metrics exposed by engines.
const MetricsNamespace = "sqlsession"

var _ Named = (*Metrics)(nil)
var _ Configurable = (*Metrics)(nil)
var _ Routable = (*Metrics)(nil)

// NewMetricsEngine creates a new Engine for exposing prometheus metrics via http.
// Metrics are exposed on /metrics, by default the GoCollector and ProcessCollector are enabled.
func NewMetricsEngine() *Metrics {
	return &Metrics{}
}

// Metrics is the engine exposing prometheus metrics.
type Metrics struct{}

func (e *Metrics) Name() string {
	return "Metrics"
}

// Configure registers the default collectors.
func (e *Metrics) Configure(_ ServerConfig) error {
	defaultCollectors := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range defaultCollectors {
		if err := RegisterCollector(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Metrics) Routes(router EchoRouter) {
	router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterCollector registers the given collector on the default registry.
// If an equal collector was registered before (e.g. by a previous instance of the same engine), it is not an error.
func RegisterCollector(collector prometheus.Collector) error {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			return nil
		}
		return err
	}
	return nil
}
