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
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loadConfigMap populates the configMap with values from the flag defaults, config file, environment and flags, in that order.
func loadConfigMap(configMap *koanf.Koanf, flags *pflag.FlagSet) error {
	if err := loadDefaultsFromFlagset(configMap, flags); err != nil {
		return err
	}
	if err := loadFromFile(configMap, resolveConfigFilePath(flags)); err != nil {
		return err
	}
	if err := loadFromEnv(configMap); err != nil {
		return err
	}
	return loadFromFlagSet(configMap, flags)
}

// resolveConfigFilePath resolves the path of the config file using the following sources:
// 1. commandline params (using the given flags)
// 2. environment vars,
// 3. default location.
func resolveConfigFilePath(flags *pflag.FlagSet) string {
	k := koanf.New(defaultDelimiter)
	// can't return error
	_ = k.Load(env.Provider(defaultPrefix, defaultDelimiter, envKeyToConfigKey), nil)
	// this also loads the default flag value (sqlsession.yaml), but only if it wasn't set through the environment
	_ = k.Load(posflag.Provider(flags, defaultDelimiter, k), nil)
	return k.String(configFileFlag)
}

func loadFromFile(configMap *koanf.Koanf, filepath string) error {
	if filepath == "" {
		return nil
	}
	if err := configMap.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func loadFromEnv(configMap *koanf.Koanf) error {
	e := env.ProviderWithValue(defaultPrefix, defaultDelimiter, func(rawKey string, rawValue string) (string, interface{}) {
		key := envKeyToConfigKey(rawKey)

		// Support multiple values separated by a comma
		if strings.Contains(rawValue, configValueListSeparator) {
			values := strings.Split(rawValue, configValueListSeparator)
			for i, value := range values {
				values[i] = strings.TrimSpace(value)
			}
			return key, values
		}
		return key, rawValue
	})
	// errors can't occur for this provider
	return configMap.Load(e, nil)
}

// envKeyToConfigKey maps e.g. SQLSESSION_STORAGE_SQL_CONNECTION to storage.sql.connection
func envKeyToConfigKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, defaultPrefix)), "_", defaultDelimiter)
}

func loadDefaultsFromFlagset(configMap *koanf.Koanf, flags *pflag.FlagSet) error {
	return configMap.Load(posflag.Provider(flags, defaultDelimiter, configMap), nil)
}

func loadFromFlagSet(configMap *koanf.Koanf, flags *pflag.FlagSet) error {
	return configMap.Load(posflag.Provider(flags, defaultDelimiter, configMap), nil)
}
