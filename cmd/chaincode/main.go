/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"

	"github.com/hyperledger-labs/fabric-state-contracts/chaincode"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/config"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
	"github.com/spf13/cobra"
)

const CmdRoot = "state-contracts"

// Version is set at build time
var Version = "development build"

// The main command describes the service and
// defaults to printing the help message.
var mainCmd = &cobra.Command{Use: CmdRoot}

func main() {
	mainCmd.AddCommand(startCmd())
	mainCmd.AddCommand(versionCmd())

	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Starts the chaincode.",
		Long:  `Starts the chaincode, as a process launched by the peer or as an external service when server.address is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Format: c.Logging.Format, LogSpec: c.Logging.Spec})
			return chaincode.Serve(c)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv(config.EnvPrefix+"_CFG_PATH"), "path of the configuration file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print current version.",
		Long:  `Print current version of the chaincode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			fmt.Printf("%s\n Version: %s\n", CmdRoot, Version)
			return nil
		},
	}
}
