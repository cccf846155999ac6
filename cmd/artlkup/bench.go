// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/hariguchi/art"
)

var benchCmd = &cobra.Command{
	Use:   "bench [ROUTEFILE]",
	Short: "Measure lookup performance",
	Long: `Bench fills a table from a route file, or with random prefixes if no
file is given, then times random longest-prefix-match lookups.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd)

		tbl, err := parseTable(cmd)
		if err != nil {
			return err
		}

		prng := rand.New(rand.NewPCG(42, 42))
		if len(args) == 1 {
			n, err := loadRoutes(tbl, args[0])
			if err != nil {
				return err
			}
			slog.Info("table loaded", "routes", n, "kind", tbl.Kind())
		} else {
			n, _ := cmd.Flags().GetInt("routes")
			fillRandom(tbl, prng, n)
			slog.Info("table filled", "routes", tbl.Size(), "kind", tbl.Kind())
		}

		st := tbl.Stats()
		slog.Debug("table shape", "nodes", st.Nodes, "perLevel", st.Levels)

		nProbes, _ := cmd.Flags().GetInt("probes")
		rounds, _ := cmd.Flags().GetInt("rounds")
		probes := make([][]byte, nProbes)
		for i := range probes {
			probes[i] = randomAddr(tbl, prng)
		}

		// one timing sample per round, gonum does the statistics
		samples := make([]float64, rounds)
		for round := range samples {
			start := time.Now()
			for _, a := range probes {
				tbl.Lookup(a)
			}
			samples[round] = float64(time.Since(start).Nanoseconds()) / float64(nProbes)
		}

		mean, std := stat.MeanStdDev(samples, nil)
		min, max := samples[0], samples[0]
		for _, s := range samples[1:] {
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
		fmt.Printf("%d routes, %d probes x %d rounds\n", tbl.Size(), nProbes, rounds)
		fmt.Printf("lookup: mean %.1f ns  stddev %.1f ns  min %.1f ns  max %.1f ns\n",
			mean, std, min, max)
		return nil
	},
}

func init() {
	benchCmd.Flags().Int("routes", 100_000, "random routes when no file is given")
	benchCmd.Flags().Int("probes", 10_000, "addresses per timing round")
	benchCmd.Flags().Int("rounds", 20, "timing rounds")
}

func fillRandom(tbl *art.Table[string], prng *rand.Rand, n int) {
	bytes := (tbl.Bits() + 7) / 8
	for tbl.Size() < n {
		plen := prng.IntN(tbl.Bits() + 1)
		dest := make([]byte, bytes)
		for i := range dest {
			dest[i] = byte(prng.Uint32())
		}
		tbl.Insert(&art.Route[string]{Dest: dest, PLen: plen})
	}
}

func randomAddr(tbl *art.Table[string], prng *rand.Rand) []byte {
	dest := make([]byte, (tbl.Bits()+7)/8)
	for i := range dest {
		dest[i] = byte(prng.Uint32())
	}
	return dest
}
