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
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nuts-foundation/go-sqlsession/storage"
)

// rowShape tells which field naming convention a result row uses.
type rowShape int

const (
	camelCaseShape rowShape = iota
	snakeCaseShape
)

// storedTimeLayouts are the textual forms in which drivers return timestamps that weren't parsed by the driver.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// universalRow is a result row in either naming convention. The convention is detected on the expiry field,
// which every session query selects.
type universalRow struct {
	shape rowShape
	row   storage.Row
}

// sessionValue is the canonical form of a session row.
type sessionValue struct {
	data      Data
	expiresAt *int64
}

func newUniversalRow(row storage.Row) (universalRow, error) {
	if _, ok := row["expiresAt"]; ok {
		return universalRow{shape: camelCaseShape, row: row}, nil
	}
	if _, ok := row["expires_at"]; ok {
		return universalRow{shape: snakeCaseShape, row: row}, nil
	}
	return universalRow{}, fmt.Errorf("%w: neither expiresAt nor expires_at is present", ErrMalformedRow)
}

// field returns the value of the given (snake_case) column, looked up in the row's naming convention.
func (u universalRow) field(column string) (interface{}, bool) {
	name := column
	if u.shape == camelCaseShape {
		name = storage.SnakeToCamel(column)
	}
	value, ok := u.row[name]
	return value, ok
}

func (u universalRow) requiredField(column string) (interface{}, error) {
	value, ok := u.field(column)
	if !ok {
		return nil, fmt.Errorf("%w: missing field %s", ErrMalformedRow, column)
	}
	return value, nil
}

func (u universalRow) toSessionValue() (sessionValue, error) {
	var result sessionValue
	var err error
	rawData, _ := u.field("data")
	if result.data, err = toData(rawData); err != nil {
		return sessionValue{}, err
	}
	rawExpiry, _ := u.field("expires_at")
	if result.expiresAt, err = toEpochMillis(rawExpiry); err != nil {
		return sessionValue{}, err
	}
	return result, nil
}

func (u universalRow) toRecord() (*Record, error) {
	value, err := u.toSessionValue()
	if err != nil {
		return nil, err
	}
	result := Record{
		Data:      value.data,
		ExpiresAt: value.expiresAt,
	}
	rawID, err := u.requiredField("id")
	if err != nil {
		return nil, err
	}
	if result.ID, err = toInt64(rawID); err != nil {
		return nil, err
	}
	rawSid, err := u.requiredField("sid")
	if err != nil {
		return nil, err
	}
	if result.Sid, err = toString(rawSid); err != nil {
		return nil, err
	}
	for column, target := range map[string]*int64{"created_at": &result.CreatedAt, "updated_at": &result.UpdatedAt} {
		raw, err := u.requiredField(column)
		if err != nil {
			return nil, err
		}
		millis, err := toEpochMillis(raw)
		if err != nil {
			return nil, err
		}
		if millis != nil {
			*target = *millis
		}
	}
	return &result, nil
}

// toData converts a stored payload to Data. Drivers return JSON columns as text, bytes or already decoded.
func toData(value interface{}) (Data, error) {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Data:
		return v, nil
	case map[string]interface{}:
		return v, nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		return nil, fmt.Errorf("%w: unsupported data type %T", ErrMalformedRow, value)
	}
	var result Data
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: data is not a JSON object: %s", ErrMalformedRow, err)
	}
	return result, nil
}

// toEpochMillis converts a stored timestamp to milliseconds since the Unix epoch. A NULL timestamp yields nil.
func toEpochMillis(value interface{}) (*int64, error) {
	var result int64
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		result = v.UnixMilli()
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		result = v.UnixMilli()
	case string:
		t, err := parseStoredTime(v)
		if err != nil {
			return nil, err
		}
		result = t.UnixMilli()
	case []byte:
		t, err := parseStoredTime(string(v))
		if err != nil {
			return nil, err
		}
		result = t.UnixMilli()
	case int64:
		result = v
	case int:
		result = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: fractional timestamp %v", ErrMalformedRow, v)
		}
		result = int64(v)
	default:
		return nil, fmt.Errorf("%w: unsupported timestamp type %T", ErrMalformedRow, value)
	}
	return &result, nil
}

func parseStoredTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unsupported timestamp format: %s", ErrMalformedRow, value)
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		var result int64
		if _, err := fmt.Sscan(string(v), &result); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrMalformedRow, err)
		}
		return result, nil
	}
	return 0, fmt.Errorf("%w: unsupported integer type %T", ErrMalformedRow, value)
}

func toString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("%w: unsupported text type %T", ErrMalformedRow, value)
}
