// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup ROUTEFILE [ADDR...]",
	Short: "Longest-prefix match addresses against a route file",
	Args:  cobra.MinimumNArgs(1),
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
		slog.Info("table loaded", "routes", n, "kind", tbl.Kind())

		var addrs [][]byte
		if file, _ := cmd.Flags().GetString("addrs"); file != "" {
			addrs, err = loadAddrs(tbl, file)
			if err != nil {
				return err
			}
		}
		for _, arg := range args[1:] {
			a, err := parseAddr(tbl, arg)
			if err != nil {
				return err
			}
			addrs = append(addrs, a)
		}

		for _, a := range addrs {
			if r, ok := tbl.Lookup(a); ok {
				fmt.Printf("%-40s -> %s\n", fmtAddr(a), r)
			} else {
				fmt.Printf("%-40s -> no match\n", fmtAddr(a))
			}
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringP("addrs", "a", "", "file of addresses to look up")
}
