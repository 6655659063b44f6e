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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_loggerMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()
	middleware := loggerMiddleware(loggerConfig{Skipper: requestsStatusEndpoint, logger: logger.WithField(LogFieldModule, "test")})
	serve := func(uri string, handler echo.HandlerFunc) {
		e := echo.New()
		request := httptest.NewRequest(http.MethodGet, uri, nil)
		_ = middleware(handler)(e.NewContext(request, httptest.NewRecorder()))
	}

	t.Run("logs request", func(t *testing.T) {
		hook.Reset()

		serve("/metrics", func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})

		require.Len(t, hook.AllEntries(), 1)
		entry := hook.LastEntry()
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, "request", entry.Message)
		assert.Equal(t, http.StatusNoContent, entry.Data["status"])
		assert.Equal(t, "/metrics", entry.Data["uri"])
		assert.Equal(t, http.MethodGet, entry.Data["method"])
	})
	t.Run("status of echo.HTTPError", func(t *testing.T) {
		hook.Reset()

		serve("/metrics", func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusNotFound)
		})

		assert.Equal(t, http.StatusNotFound, hook.LastEntry().Data["status"])
	})
	t.Run("other errors are logged as internal server error", func(t *testing.T) {
		hook.Reset()

		serve("/metrics", func(c echo.Context) error {
			return errors.New("failed")
		})

		assert.Equal(t, http.StatusInternalServerError, hook.LastEntry().Data["status"])
	})
	t.Run("status endpoint is skipped", func(t *testing.T) {
		hook.Reset()

		serve("/status", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		assert.Empty(t, hook.AllEntries())
	})
}

func Test_createEchoServer(t *testing.T) {
	server, err := createEchoServer(HTTPConfig{Address: ":0"})

	require.NoError(t, err)
	assert.True(t, server.(*echo.Echo).HideBanner)
}

func TestSystem_EchoCreator(t *testing.T) {
	server, err := NewSystem().EchoCreator(HTTPConfig{})

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func Test_createHTTPErrorHandler(t *testing.T) {
	handle := func(err error) *httptest.ResponseRecorder {
		e := echo.New()
		recorder := httptest.NewRecorder()
		createHTTPErrorHandler()(err, e.NewContext(httptest.NewRequest(http.MethodGet, "/unknown", nil), recorder))
		return recorder
	}

	t.Run("echo.HTTPError", func(t *testing.T) {
		recorder := handle(echo.NewHTTPError(http.StatusNotFound, "no such route"))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "application/problem+json", recorder.Header().Get("Content-Type"))
		assert.Contains(t, recorder.Body.String(), `"detail":"no such route"`)
		assert.Contains(t, recorder.Body.String(), `"title":"Not Found"`)
	})
	t.Run("other error", func(t *testing.T) {
		recorder := handle(errors.New("database unavailable"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"detail":"database unavailable"`)
	})
}
