// sweepcheck audits the address-generator mapping for a panel layout
// without running the pipeline: it enumerates one full row-fetch sweep and
// reports coverage, duplicates and the canvas footprint. Useful before
// enabling a new multi-panel configuration.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ledworks/hub75core/internal/config"
	"github.com/ledworks/hub75core/internal/hub75"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		row        = flag.Int("row", 0, "scan row to sweep")
		dump       = flag.Bool("dump", false, "print every emitted address")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	geom := cfg.Hub75Geometry()
	regs := hub75.NewRegisters(geom.ChainLength)
	if err := cfg.Apply(regs); err != nil {
		log.Fatal().Err(err).Msg("bad panel layout")
	}
	if *row < 0 || *row >= geom.Scan {
		log.Fatal().Int("row", *row).Int("scan", geom.Scan).Msg("row outside scan range")
	}

	entries := hub75.SweepAddresses(geom, regs, *row)
	seen := map[uint32]int{}
	var lo, hi uint32
	for i, e := range entries {
		if *dump {
			log.Info().
				Int("channel", e.Channel).Int("chain", e.Chain).
				Int("half", e.Half).Int("column", e.Column).
				Uint32("addr", e.Addr).Msg("sweep")
		}
		seen[e.Addr]++
		if i == 0 || e.Addr < lo {
			lo = e.Addr
		}
		if e.Addr > hi {
			hi = e.Addr
		}
	}
	dups := 0
	for _, n := range seen {
		if n > 1 {
			dups += n - 1
		}
	}

	log.Info().
		Int("positions", len(entries)).
		Int("unique_addrs", len(seen)).
		Int("duplicates", dups).
		Uint32("addr_lo", lo).Uint32("addr_hi", hi).
		Msg("sweep audit")
	if dups > 0 {
		log.Warn().Msg("panel slots overlap on the canvas; check grid assignments")
		os.Exit(1)
	}
}
