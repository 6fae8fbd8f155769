package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// veritas is the ops companion to veritasd: it calls the integrity
// verification endpoints so an operator can check a case chain or a firm
// ledger from a terminal or a cron job.
func run(args []string) int {
	if len(args) < 2 {
		usage(args)
		return 1
	}

	switch args[1] {
	case "chain":
		if len(args) >= 3 && args[2] == "verify" {
			return runChainVerify(args[3:])
		}
	case "ledger":
		if len(args) >= 3 && args[2] == "verify" {
			return runLedgerVerify(args[3:])
		}
	}

	usage(args)
	return 1
}

func usage(args []string) {
	name := "veritas"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s chain verify --case <case-id> [--addr <url>] [--firm <firm-id>] [--subject <user-id>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s ledger verify [--addr <url>] [--firm <firm-id>] [--subject <user-id>]\n", name)
}
