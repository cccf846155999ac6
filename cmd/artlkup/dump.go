// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump ROUTEFILE",
	Short: "Print a loaded table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd)

		tbl, err := parseTable(cmd)
		if err != nil {
			return err
		}
		n, err := loadRoutes(tbl, args[0])
		if err != nil {
			return err
		}
		st := tbl.Stats()
		slog.Info("table loaded",
			"routes", n, "kind", tbl.Kind(), "nodes", st.Nodes, "perLevel", st.Levels)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tbl)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	dumpCmd.Flags().Bool("json", false, "dump as JSON")
}
