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
)

// ErrInvalidTimestamp is returned when an explicit expiry is not a valid instant in epoch milliseconds.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ErrMalformedRow is returned when a row returned by the database doesn't have the expected shape,
// e.g. because the table doesn't match the session table layout.
var ErrMalformedRow = errors.New("malformed session row")
