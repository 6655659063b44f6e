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
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var _ Named = (*Status)(nil)
var _ Diagnosable = (*Status)(nil)
var _ Routable = (*Status)(nil)

// NewStatusEngine creates a new Engine for viewing all engines
func NewStatusEngine(system *System) *Status {
	return &Status{
		system: system,
	}
}

// Status is the engine reporting liveness and the diagnostics of all engines.
type Status struct {
	system *System
}

func (s *Status) Name() string {
	return "Status"
}

func (s *Status) Routes(router EchoRouter) {
	router.GET("/status/diagnostics", s.diagnosticsOverview)
	router.GET("/status", statusOK)
}

func (s *Status) diagnosticsOverview(ctx echo.Context) error {
	return ctx.String(http.StatusOK, s.diagnosticsSummaryAsText())
}

func (s *Status) diagnosticsSummaryAsText() string {
	var lines []string
	s.system.VisitEngines(func(engine Engine) {
		diagnosable, ok := engine.(Diagnosable)
		if !ok {
			return
		}
		lines = append(lines, engineName(engine))
		for _, d := range diagnosable.Diagnostics() {
			lines = append(lines, fmt.Sprintf("\t%s: %s", d.Name(), d.String()))
		}
	})
	return strings.Join(lines, "\n")
}

// Diagnostics returns the names of all registered engines.
func (s *Status) Diagnostics() []DiagnosticResult {
	var names []string
	s.system.VisitEngines(func(engine Engine) {
		names = append(names, engineName(engine))
	})
	return []DiagnosticResult{&GenericDiagnosticResult{Title: "registered_engines", Value: strings.Join(names, ",")}}
}

// statusOK returns 200 OK with a "OK" body
func statusOK(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "OK")
}
