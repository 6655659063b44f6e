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
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nuts-foundation/go-sqlsession/core"
	"github.com/nuts-foundation/go-sqlsession/session"
	"github.com/nuts-foundation/go-sqlsession/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// FlagSet contains flags relevant for the engine
func FlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("session", pflag.ContinueOnError)
	defs := session.DefaultConfig()
	flagSet.Int("session.ttl", defs.TTL, "Time-to-live in seconds of sessions stored without explicit expiry.")
	flagSet.String("session.table", defs.Table, "Table sessions are stored in, optionally schema qualified (e.g. public.session). "+
		"If not set, public.session is used on PostgreSQL and session on other databases.")
	flagSet.Duration("session.pruneinterval", defs.PruneInterval, "Interval at which expired sessions are deleted, formatted as Golang duration (e.g. 10m). 0 disables pruning.")
	flagSet.Duration("session.prunegrace", defs.PruneGrace, "Duration expired sessions are kept before they are pruned, formatted as Golang duration (e.g. 1h).")
	return flagSet
}

// ServerCmd contains CLI commands for administering sessions, which operate on the configured database directly.
func ServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "session store commands",
	}
	cmd.AddCommand(getCommand())
	cmd.AddCommand(inspectCommand())
	cmd.AddCommand(setCommand())
	cmd.AddCommand(newCommand())
	cmd.AddCommand(destroyCommand())
	cmd.AddCommand(touchCommand())
	cmd.AddCommand(pruneCommand())
	cmd.AddCommand(countCommand())
	return cmd
}

func getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [sid]",
		Short: "Prints the data and expiry of an active session.",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, store *session.Store) error {
			result, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if result == nil {
				cmd.Println("Session not found")
				return nil
			}
			return printJSON(cmd, struct {
				Data      session.Data `json:"data"`
				ExpiresAt *int64       `json:"expiresAt"`
			}{result.Data, result.ExpiresAt})
		}),
	}
}

func inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [sid]",
		Short: "Prints the stored record of a session, including expired sessions.",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, store *session.Store) error {
			record, err := store.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if record == nil {
				cmd.Println("Session not found")
				return nil
			}
			return printJSON(cmd, record)
		}),
	}
}

func setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [sid] [data] [expiresAt]",
		Short: "Creates or replaces a session.",
		Long: "Creates or replaces a session. The data must be a JSON object. " +
			"The optional expiry is given in milliseconds since the Unix epoch, if omitted the session expires after the configured TTL.",
		Args: cobra.RangeArgs(2, 3),
		RunE: withStore(func(cmd *cobra.Command, args []string, store *session.Store) error {
			return set(cmd, store, args[0], args[1:])
		}),
	}
}

func newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new [data] [expiresAt]",
		Short: "Creates a session with a random ID and prints the ID.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withStore(func(cmd *cobra.Command, args []string, store *session.Store) error {
			sid := uuid.NewString()
			if err := set(cmd, store, sid, args); err != nil {
				return err
			}
			cmd.Println(sid)
			return nil
		}),
	}
}

func set(cmd *cobra.Command, store *session.Store, sid string, args []string) error {
	var data session.Data
	if err := json.Unmarshal([]byte(args[0]), &data); err != nil {
		return fmt.Errorf("session data must be a JSON object: %w", err)
	}
	expiresAt, err := optionalTimestamp(args[1:])
	if err != nil {
		return err
	}
	return store.Set(cmd.Context(), sid, data, expiresAt)
}

func destroyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy [sid]",
		Short: "Deletes a session. Deleting a session that doesn't exist is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, store *session.Store) error {
			return store.Destroy(cmd.Context(), args[0])
		}),
	}
}

func touchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch [sid] [expiresAt]",
		Short: "Updates the expiry of a session, leaving its data as-is.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withStore(func(cmd *cobra.Command, args []string, store *session.Store) error {
			expiresAt, err := optionalTimestamp(args[1:])
			if err != nil {
				return err
			}
			touched, err := store.Touch(cmd.Context(), args[0], expiresAt)
			if err != nil {
				return err
			}
			if !touched {
				cmd.Println("Session not found")
			}
			return nil
		}),
	}
}

func pruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Deletes expired sessions, respecting the configured grace period.",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, _ []string, engine *session.Engine) error {
			grace := engine.Config().(*session.Config).PruneGrace
			deleted, err := engine.Store().DeleteExpired(cmd.Context(), grace)
			if err != nil {
				return err
			}
			cmd.Printf("Pruned %d expired session(s)\n", deleted)
			return nil
		}),
	}
}

func countCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Prints the number of stored sessions, including expired ones.",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, store *session.Store) error {
			count, err := store.Length(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(count)
			return nil
		}),
	}
}

func optionalTimestamp(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return session.ParseTimestamp(args[0])
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	bytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(bytes))
	return nil
}

func withStore(fn func(cmd *cobra.Command, args []string, store *session.Store) error) func(cmd *cobra.Command, args []string) error {
	return withEngine(func(cmd *cobra.Command, args []string, engine *session.Engine) error {
		return fn(cmd, args, engine.Store())
	})
}

func withEngine(fn func(cmd *cobra.Command, args []string, engine *session.Engine) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		engine, closer, err := LoadSessionEngine(cmd)
		if err != nil {
			return err
		}
		defer closer()
		return fn(cmd, args, engine)
	}
}

// LoadSessionEngine creates and starts the storage and session engines, configured using the given command's flags.
// Background pruning is disabled. The returned function shuts down both engines.
func LoadSessionEngine(cmd *cobra.Command) (*session.Engine, func(), error) {
	cfg := core.NewServerConfig()
	if err := cfg.Load(cmd.Flags()); err != nil {
		return nil, nil, err
	}
	storageEngine := storage.New()
	sessionEngine := session.NewEngine(storageEngine)
	system := core.NewSystem()
	system.Config = cfg
	system.RegisterEngine(storageEngine)
	system.RegisterEngine(sessionEngine)
	err := system.VisitEnginesE(func(engine core.Engine) error {
		return cfg.InjectIntoEngine(engine.(core.Injectable))
	})
	if err != nil {
		return nil, nil, err
	}
	sessionEngine.Config().(*session.Config).PruneInterval = 0
	if err := system.Configure(); err != nil {
		return nil, nil, err
	}
	if err := system.Start(); err != nil {
		_ = system.Shutdown()
		return nil, nil, err
	}
	return sessionEngine, func() {
		_ = system.Shutdown()
	}, nil
}
