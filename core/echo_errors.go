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

	"github.com/labstack/echo/v4"
	"schneider.vip/problem"
)

// createHTTPErrorHandler returns an Echo HTTPErrorHandler that logs the error and writes it as problem+json response.
func createHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		statusCode := http.StatusInternalServerError
		detail := err.Error()
		if echoErr, ok := err.(*echo.HTTPError); ok {
			statusCode = echoErr.Code
			detail = fmt.Sprintf("%v", echoErr.Message)
		}
		logMsg := Logger().
			WithField("requestURI", ctx.Request().RequestURI).
			WithError(err)
		if statusCode == http.StatusInternalServerError {
			logMsg.Error("Request failed")
		} else {
			logMsg.Warn("Request failed")
		}
		if ctx.Response().Committed {
			Logger().WithError(err).Warn("Unable to send error back to client, response already committed")
			return
		}
		result := problem.New(problem.Title(http.StatusText(statusCode)), problem.Status(statusCode), problem.Detail(detail))
		if _, writeErr := result.WriteTo(ctx.Response()); writeErr != nil {
			Logger().WithError(writeErr).Error("Unable to write error response")
		}
	}
}
