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
)

const testEngineName = "testengine"

// TestServerConfig returns a new ServerConfig with the given template applied.
func TestServerConfig(template ServerConfig) ServerConfig {
	config := NewServerConfig()
	// Most commonly used properties
	config.Datadir = template.Datadir
	config.Verbosity = template.Verbosity
	config.LoggerFormat = template.LoggerFormat
	config.HTTP = template.HTTP
	return *config
}

// TestEngineConfig defines the configuration for the test engine
type TestEngineConfig struct {
	Key  string              `koanf:"key"`
	Sub  TestEngineSubConfig `koanf:"sub"`
	List []string            `koanf:"list"`
}

// TestEngineSubConfig defines the `sub` configuration for the test engine
type TestEngineSubConfig struct {
	Test string `koanf:"test"`
}

// TestEngine is an engine implementing all optional engine interfaces, recording the calls made to it.
type TestEngine struct {
	TestConfig    TestEngineConfig
	ShutdownError bool
	StartError    bool
	// Calls records the names of the lifecycle calls, in order.
	Calls *[]string
}

func (i *TestEngine) record(call string) {
	if i.Calls != nil {
		*i.Calls = append(*i.Calls, i.Name()+"."+call)
	}
}

// Configure does test stuff
func (i *TestEngine) Configure(_ ServerConfig) error {
	i.record("configure")
	return nil
}

// Start does test stuff
func (i *TestEngine) Start() error {
	i.record("start")
	if i.StartError {
		return errors.New("failure")
	}
	return nil
}

// Shutdown does test stuff
func (i *TestEngine) Shutdown() error {
	i.record("shutdown")
	if i.ShutdownError {
		return errors.New("failure")
	}
	return nil
}

func (i *TestEngine) Config() interface{} {
	return &i.TestConfig
}

func (i *TestEngine) Name() string {
	return testEngineName
}

func (i *TestEngine) ConfigKey() string {
	return testEngineName
}

func (i *TestEngine) Diagnostics() []DiagnosticResult {
	return []DiagnosticResult{&GenericDiagnosticResult{Title: "key", Value: i.TestConfig.Key}}
}
