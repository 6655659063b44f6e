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
	"strings"

	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const defaultConfigFile = "sqlsession.yaml"
const configFileFlag = "configfile"

const defaultPrefix = "SQLSESSION_"
const defaultDelimiter = "."
const configValueListSeparator = ","

// ServerConfig has global server settings.
type ServerConfig struct {
	Verbosity    string     `koanf:"verbosity"`
	LoggerFormat string     `koanf:"loggerformat"`
	Datadir      string     `koanf:"datadir"`
	HTTP         HTTPConfig `koanf:"http"`
	configMap    *koanf.Koanf
}

// HTTPConfig contains configuration for the HTTP interface, which exposes the status and metrics endpoints.
type HTTPConfig struct {
	// Address holds the interface address the HTTP service must be bound to, in the format of `interface:port` (e.g. localhost:5555).
	Address string `koanf:"address"`
}

// NewServerConfig creates an initialized empty server config
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		configMap: koanf.New(defaultDelimiter),
	}
}

// Load loads the server config, following the load order of flag defaults, config file, env vars and then commandline params.
func (ngc *ServerConfig) Load(flags *pflag.FlagSet) error {
	if err := loadConfigMap(ngc.configMap, flags); err != nil {
		return err
	}
	if err := ngc.configMap.UnmarshalWithConf("", ngc, koanf.UnmarshalConf{
		FlatPaths: false,
	}); err != nil {
		return err
	}

	lvl, err := logrus.ParseLevel(ngc.Verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	switch ngc.LoggerFormat {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid formatter: '%s'", ngc.LoggerFormat)
	}
	return nil
}

// FlagSet returns the default server flags
func FlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.String(configFileFlag, defaultConfigFile, "SQL session store config file")
	flagSet.String("verbosity", "info", "Log level (trace, debug, info, warn, error)")
	flagSet.String("loggerformat", "text", "Log format (text, json)")
	flagSet.String("datadir", "./data", "Directory where the default SQLite database is stored.")
	flagSet.String("http.address", ":8080", "Address and port the server will be listening to for status and metrics requests")
	return flagSet
}

// PrintConfig return the current config in string form
func (ngc *ServerConfig) PrintConfig() string {
	return ngc.configMap.Sprint()
}

// InjectIntoEngine takes the loaded config and sets the engine's config struct
func (ngc *ServerConfig) InjectIntoEngine(e Injectable) error {
	return ngc.configMap.UnmarshalWithConf(strings.ToLower(e.ConfigKey()), e.Config(), koanf.UnmarshalConf{
		FlatPaths: false,
	})
}
