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

package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/nuts-foundation/go-sqlsession/session"
	sessionCmd "github.com/nuts-foundation/go-sqlsession/session/cmd"
	"github.com/nuts-foundation/go-sqlsession/storage"
	storageCmd "github.com/nuts-foundation/go-sqlsession/storage/cmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var stdOutWriter io.Writer = os.Stdout

const shutdownTimeout = 10 * time.Second

func createRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "sqlsession",
		Short:         "SQL session store, which can run as server or be used to administer the sessions in its database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}
}

func createPrintConfigCommand(system *core.System) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the current config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := system.Load(cmd.Flags()); err != nil {
				return err
			}
			cmd.Println("Current system config")
			cmd.Println(system.Config.PrintConfig())
			return nil
		},
	}
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of the binary",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(core.BuildInfo())
		},
	}
}

func createServerCommand(system *core.System) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the session store engines and the HTTP server exposing status and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := system.Load(cmd.Flags()); err != nil {
				return err
			}
			return startServer(cmd.Context(), system)
		},
	}
}

func startServer(ctx context.Context, system *core.System) error {
	logrus.Infof("Starting server (version=%s)", core.Version())
	logrus.Debugf("Config:\n%s", system.Config.PrintConfig())

	if err := system.Configure(); err != nil {
		return err
	}
	if err := system.Start(); err != nil {
		if shutdownErr := system.Shutdown(); shutdownErr != nil {
			logrus.WithError(shutdownErr).Error("Failed to shutdown engines after failed start")
		}
		return err
	}

	echoServer, err := system.EchoCreator(system.Config.HTTP)
	if err != nil {
		_ = system.Shutdown()
		return err
	}
	for _, router := range system.Routers {
		router.Routes(echoServer)
	}
	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		if err := echoServer.Start(system.Config.HTTP.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	logrus.Infof("Server started (address=%s)", system.Config.HTTP.Address)

	select {
	case <-ctx.Done():
		logrus.Info("Shutting down server")
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := echoServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logrus.WithError(shutdownErr).Error("Failed to shutdown HTTP server")
	}
	if shutdownErr := system.Shutdown(); shutdownErr != nil {
		logrus.WithError(shutdownErr).Error("Failed to shutdown engines")
		if err == nil {
			err = shutdownErr
		}
	}
	return err
}

// CreateCommand creates the command with all subcommands to run the system.
func CreateCommand(system *core.System) *cobra.Command {
	command := createRootCommand()
	command.SetOut(stdOutWriter)
	command.PersistentFlags().AddFlagSet(serverConfigFlags())
	command.AddCommand(createServerCommand(system))
	command.AddCommand(createPrintConfigCommand(system))
	command.AddCommand(createVersionCommand())
	command.AddCommand(sessionCmd.ServerCmd())
	return command
}

func serverConfigFlags() *pflag.FlagSet {
	set := pflag.NewFlagSet("server", pflag.ContinueOnError)
	set.AddFlagSet(core.FlagSet())
	set.AddFlagSet(storageCmd.FlagSet())
	set.AddFlagSet(sessionCmd.FlagSet())
	return set
}

// CreateSystem creates the system and registers all default engines.
func CreateSystem() *core.System {
	system := core.NewSystem()
	// Create instances
	storageInstance := storage.New()
	sessionInstance := session.NewEngine(storageInstance)
	metricsInstance := core.NewMetricsEngine()
	statusInstance := core.NewStatusEngine(system)

	// Register HTTP routes
	system.RegisterRoutes(statusInstance)
	system.RegisterRoutes(metricsInstance)

	// Register engines
	// storage must be registered before session, since session uses it on start
	system.RegisterEngine(statusInstance)
	system.RegisterEngine(metricsInstance)
	system.RegisterEngine(storageInstance)
	system.RegisterEngine(sessionInstance)
	return system
}

// Execute executes the root command. Long-running commands stop when the given context is cancelled.
func Execute(ctx context.Context, system *core.System) error {
	return CreateCommand(system).ExecuteContext(ctx)
}
