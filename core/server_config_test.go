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
	"os"
	"path"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerConfig_Load(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	t.Run("defaults", func(t *testing.T) {
		config := NewServerConfig()
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--configfile="}))

		require.NoError(t, config.Load(flags))

		assert.Equal(t, "info", config.Verbosity)
		assert.Equal(t, "text", config.LoggerFormat)
		assert.Equal(t, "./data", config.Datadir)
		assert.Equal(t, ":8080", config.HTTP.Address)
	})
	t.Run("from file", func(t *testing.T) {
		configFile := path.Join(t.TempDir(), "sqlsession.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("verbosity: debug\nhttp:\n  address: localhost:1234\n"), 0644))
		config := NewServerConfig()
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--configfile=" + configFile}))

		require.NoError(t, config.Load(flags))

		assert.Equal(t, "debug", config.Verbosity)
		assert.Equal(t, "localhost:1234", config.HTTP.Address)
		assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	})
	t.Run("env overrides file, flag overrides env", func(t *testing.T) {
		configFile := path.Join(t.TempDir(), "sqlsession.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("datadir: /from/file\nloggerformat: text\n"), 0644))
		t.Setenv("SQLSESSION_DATADIR", "/from/env")
		t.Setenv("SQLSESSION_LOGGERFORMAT", "json")
		config := NewServerConfig()
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--configfile=" + configFile, "--datadir=/from/flag"}))

		require.NoError(t, config.Load(flags))

		assert.Equal(t, "/from/flag", config.Datadir)
		assert.Equal(t, "json", config.LoggerFormat)
		assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
	})
	t.Run("config file from env", func(t *testing.T) {
		configFile := path.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("datadir: /custom\n"), 0644))
		t.Setenv("SQLSESSION_CONFIGFILE", configFile)
		config := NewServerConfig()

		require.NoError(t, config.Load(FlagSet()))

		assert.Equal(t, "/custom", config.Datadir)
	})
	t.Run("invalid config file", func(t *testing.T) {
		configFile := path.Join(t.TempDir(), "sqlsession.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("datadir: [unclosed\n"), 0644))
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--configfile=" + configFile}))

		err := NewServerConfig().Load(flags)

		assert.Error(t, err)
	})
	t.Run("invalid verbosity", func(t *testing.T) {
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--configfile=", "--verbosity=chatty"}))

		err := NewServerConfig().Load(flags)

		assert.EqualError(t, err, "not a valid logrus Level: \"chatty\"")
	})
	t.Run("invalid logger format", func(t *testing.T) {
		flags := FlagSet()
		require.NoError(t, flags.Parse([]string{"--configfile=", "--loggerformat=xml"}))

		err := NewServerConfig().Load(flags)

		assert.EqualError(t, err, "invalid formatter: 'xml'")
	})
}

func TestServerConfig_InjectIntoEngine(t *testing.T) {
	t.Run("env list values", func(t *testing.T) {
		t.Setenv("SQLSESSION_TESTENGINE_LIST", "a, b,c")
		config := NewServerConfig()
		flags := FlagSet()
		flags.StringSlice("testengine.list", []string{"default"}, "")
		require.NoError(t, flags.Parse([]string{"--configfile="}))
		require.NoError(t, config.Load(flags))
		engine := &TestEngine{}

		require.NoError(t, config.InjectIntoEngine(engine))

		assert.Equal(t, []string{"a", "b", "c"}, engine.TestConfig.List)
	})
	t.Run("defaults from flags", func(t *testing.T) {
		config := NewServerConfig()
		flags := FlagSet()
		flags.String("testengine.key", "default", "")
		require.NoError(t, flags.Parse([]string{"--configfile="}))
		require.NoError(t, config.Load(flags))
		engine := &TestEngine{}

		require.NoError(t, config.InjectIntoEngine(engine))

		assert.Equal(t, "default", engine.TestConfig.Key)
	})
}

func TestServerConfig_PrintConfig(t *testing.T) {
	config := NewServerConfig()
	flags := FlagSet()
	require.NoError(t, flags.Parse([]string{"--configfile="}))
	require.NoError(t, config.Load(flags))

	printed := config.PrintConfig()

	assert.Contains(t, printed, "verbosity -> info")
	assert.Contains(t, printed, "http.address -> :8080")
}
