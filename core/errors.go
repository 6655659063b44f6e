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
	"github.com/go-errors/errors"
)

// classifiedError puts a cause in an error class (a sentinel like session.ErrInvalidTimestamp),
// keeping the stack of where it was classified.
type classifiedError struct {
	class error
	cause *errors.Error
}

func (c classifiedError) Error() string {
	return c.class.Error() + ": " + c.cause.Err.Error()
}

// Unwrap exposes both the class and the cause to errors.Is and errors.As.
func (c classifiedError) Unwrap() []error {
	return []error{c.class, c.cause.Err}
}

// Stack returns the stack trace of where the error was classified.
func (c classifiedError) Stack() []byte {
	return c.cause.Stack()
}

// WrapError classifies cause as class. Unlike fmt.Errorf("%w: %w"), the result records a stack trace.
// A nil cause returns the class itself.
func WrapError(class error, cause error) error {
	if cause == nil {
		return class
	}
	return classifiedError{class: class, cause: errors.Wrap(cause, 1)}
}
