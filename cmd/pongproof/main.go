// Command pongproof is the CLI prove/verify wrapper (spec §6: "these are
// outside the core's responsibility; the core only exposes validateLog").
// verify is fully implemented against the validator package; prove checks
// the --format flag and the log, then exits non-zero because no proving
// backend is built in.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pongfair/pongcore/guest"
	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/validator"
	"github.com/pongfair/pongcore/wire"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "verify":
		runVerify(os.Args[2:])
	case "prove":
		runProve(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pongproof verify <log.json>")
	fmt.Fprintln(os.Stderr, "       pongproof prove <log.json> [--format composite|succinct|groth16]")
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	log, err := loadLog(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pongproof: %v\n", err)
		os.Exit(1)
	}

	result := validator.ValidateLog(log)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if !result.Fair {
		enc.Encode(result)
		os.Exit(1)
	}

	events, err := wire.DecodeEvents(log.Events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pongproof: %v\n", err)
		os.Exit(1)
	}
	out := guest.Validate(guest.ValidateLogInput{GameID: log.GameID, Events: events})
	enc.Encode(guest.NewSummary(out))
}

// Prover is the external collaborator that turns a validated log into a
// zero-knowledge proof (RISC Zero-style, per the guest/host boundary).
// This module defines only the contract it consumes, not an
// implementation; runProve does not call it.
type Prover interface {
	Prove(log wire.CompactLog, format string) ([]byte, error)
}

func runProve(args []string) {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	format := fs.String("format", "composite", "proof format: composite|succinct|groth16")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	kind, err := guest.ParseReceiptKind(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pongproof: %v\n", err)
		os.Exit(1)
	}

	log, err := loadLog(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pongproof: %v\n", err)
		os.Exit(1)
	}

	if result := validator.ValidateLog(log); !result.Fair {
		fmt.Fprintf(os.Stderr, "pongproof: refusing to prove an unfair log: %s\n", result.Reason)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "pongproof: no %s proving backend configured; this build only validates\n", kind)
	os.Exit(2)
}

func loadLog(path string) (wire.CompactLog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return wire.CompactLog{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > pongconfig.MaxLogFileBytes {
		return wire.CompactLog{}, fmt.Errorf("%s exceeds the %d byte log size cap", path, pongconfig.MaxLogFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return wire.CompactLog{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var l wire.CompactLog
	if err := json.Unmarshal(data, &l); err != nil {
		return wire.CompactLog{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return l, nil
}
