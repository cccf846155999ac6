// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

// Command artlkup builds routing tables from prefix files and runs
// batch lookups, benchmarks and dumps against them.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/hariguchi/art"
)

var rootCmd = &cobra.Command{
	Use:               "artlkup",
	Short:             "Allotment Routing Table lookup driver",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().StringP("kind", "k", "pc", "trie kind: simple or pc")
	rootCmd.PersistentFlags().StringP("strides", "s", "", "stride lengths, e.g. 16,8,8")
	rootCmd.PersistentFlags().BoolP("ipv6", "6", false, "IPv6 table")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger installs a tinted slog handler honoring --verbose.
func setupLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// parseTable builds an empty table from the persistent flags.
func parseTable(cmd *cobra.Command) (*art.Table[string], error) {
	kindFlag, _ := cmd.Flags().GetString("kind")
	var kind art.Kind
	switch kindFlag {
	case "simple":
		kind = art.Simple
	case "pc", "path-compressed":
		kind = art.PathCompressed
	default:
		return nil, fmt.Errorf("unknown trie kind %q", kindFlag)
	}

	bits := 32
	strides := []int{16, 8, 8}
	if v6, _ := cmd.Flags().GetBool("ipv6"); v6 {
		bits = 128
		strides = []int{16, 16, 16, 16, 16, 16, 16, 16}
	}
	if s, _ := cmd.Flags().GetString("strides"); s != "" {
		strides = strides[:0]
		sum := 0
		for _, f := range strings.Split(s, ",") {
			sl, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("invalid stride %q: %w", f, err)
			}
			strides = append(strides, sl)
			sum += sl
		}
		if sum != bits {
			return nil, fmt.Errorf("strides %v sum to %d, want %d", strides, sum, bits)
		}
	}

	return art.New[string](kind, strides, bits), nil
}
