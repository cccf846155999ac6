// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"github.com/hariguchi/art"
)

// loadRoutes reads a prefix file (one CIDR per line, # comments) into
// the table. Duplicates are logged and skipped.
func loadRoutes(tbl *art.Table[string], path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	lineNo := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pfx, err := netip.ParsePrefix(line)
		if err != nil {
			return n, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if wantLen(tbl) != len(pfx.Addr().AsSlice()) {
			return n, fmt.Errorf("%s:%d: %s does not fit a %d bit table",
				path, lineNo, pfx, tbl.Bits())
		}

		r := &art.Route[string]{
			Dest:  pfx.Addr().AsSlice(),
			PLen:  pfx.Bits(),
			Value: line,
		}
		if _, ok := tbl.Insert(r); !ok {
			slog.Debug("duplicate prefix skipped", "prefix", line, "line", lineNo)
			continue
		}
		n++
	}
	return n, sc.Err()
}

// loadAddrs reads one address per line, # comments allowed.
func loadAddrs(tbl *art.Table[string], path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var addrs [][]byte
	lineNo := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := parseAddr(tbl, line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		addrs = append(addrs, a)
	}
	return addrs, sc.Err()
}

func parseAddr(tbl *art.Table[string], s string) ([]byte, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	b := a.AsSlice()
	if len(b) != wantLen(tbl) {
		return nil, fmt.Errorf("%s does not fit a %d bit table", s, tbl.Bits())
	}
	return b, nil
}

func wantLen(tbl *art.Table[string]) int {
	return (tbl.Bits() + 7) / 8
}

func fmtAddr(b []byte) string {
	if a, ok := netip.AddrFromSlice(b); ok {
		return a.String()
	}
	return fmt.Sprintf("%x", b)
}
