// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	utilities "github.com/maidsafe/maidsafe-utilities"
	"github.com/maidsafe/maidsafe-utilities/pkg/log"
	"github.com/maidsafe/maidsafe-utilities/pkg/logserver"
	"github.com/maidsafe/maidsafe-utilities/pkg/logstore"
)

func (c *command) initStartCmd() (err error) {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the log capture server",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			if v := c.config.GetString(optionNameVerbosity); v != "" {
				if err := os.Setenv(log.EnvDirectives, v); err != nil {
					return err
				}
			}
			if err := log.Init(false); err != nil {
				return fmt.Errorf("initialising logging: %w", err)
			}
			defer func() {
				if err := log.Close(); err != nil {
					cmd.PrintErrln("closing logging:", err)
				}
			}()
			logger := log.NewLogger("logserver")

			var store *logstore.Store
			if dataDir := c.config.GetString(optionNameDataDir); dataDir != "" {
				store, err = logstore.New(filepath.Join(dataDir, "records"))
				if err != nil {
					return fmt.Errorf("opening record store: %w", err)
				}
				defer func() {
					if err := store.Close(); err != nil {
						logger.Errorf("closing record store: %v", err)
					}
				}()
			}

			srv, err := logserver.New(logserver.Options{
				TCPAddr:   c.config.GetString(optionNameListenTCP),
				WSAddr:    c.config.GetString(optionNameListenWS),
				SessionID: c.config.GetString(optionNameSessionID),
				Store:     store,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			if addr := srv.TCPAddr(); addr != nil {
				cmd.Println("tcp address:", addr)
			}
			if addr := srv.WSAddr(); addr != nil {
				cmd.Println("web-socket address:", addr)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			runErr := make(chan error, 1)
			go func() { runErr <- srv.Run(ctx) }()

			// Wait for termination or interrupt signals.
			interruptChannel := make(chan os.Signal, 1)
			signal.Notify(interruptChannel, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-interruptChannel:
				logger.Infof("received signal: %v", sig)
				cancel()
			case err := <-runErr:
				return err
			}

			// If shutdown is blocking too long, allow process
			// termination by receiving another signal.
			select {
			case sig := <-interruptChannel:
				logger.Infof("received signal: %v", sig)
				return nil
			case err := <-runErr:
				return err
			}
		},
	}

	cmd.Flags().String(optionNameListenTCP, ":55555", "TCP record stream listen address, empty to disable")
	cmd.Flags().String(optionNameListenWS, "", "web-socket listen address, empty to disable")
	cmd.Flags().String(optionNameSessionID, "", "required SessionId header for web-socket clients")
	cmd.Flags().String(optionNameDataDir, "", "directory for persisted records, empty to disable persistence")
	cmd.Flags().String(optionNameVerbosity, "", "level directives for the server's own logging, e.g. 'logserver=debug'")

	c.root.AddCommand(cmd)
	return nil
}

func (c *command) initVersionCmd() {
	c.root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(utilities.Version)
		},
	})
}
