package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type clientFlags struct {
	addr    string
	firm    string
	subject string
	roles   string
}

func bindClientFlags(fs *flag.FlagSet) *clientFlags {
	cf := &clientFlags{}
	fs.StringVar(&cf.addr, "addr", envOr("VERITAS_ADDR", "http://localhost:8080"), "base URL of veritasd")
	fs.StringVar(&cf.firm, "firm", os.Getenv("VERITAS_FIRM"), "firm id for the X-Principal-Firm header")
	fs.StringVar(&cf.subject, "subject", envOr("VERITAS_SUBJECT", "ops-cli"), "subject for the X-Principal-Subject header")
	fs.StringVar(&cf.roles, "roles", envOr("VERITAS_ROLES", "Admin"), "comma separated roles header")
	return cf
}

func runChainVerify(args []string) int {
	fs := flag.NewFlagSet("chain verify", flag.ContinueOnError)
	cf := bindClientFlags(fs)
	caseID := fs.String("case", "", "case id to verify")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if strings.TrimSpace(*caseID) == "" {
		fmt.Fprintln(os.Stderr, "error: --case is required")
		return 1
	}
	body, err := cf.get("/api/v1/cases/" + *caseID + "/chain")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	var result struct {
		Valid    bool   `json:"valid"`
		BrokenAt string `json:"broken_at"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Fprintf(os.Stderr, "error: unexpected response: %v\n", err)
		return 1
	}
	if result.Valid {
		fmt.Printf("chain OK: case %s\n", *caseID)
		return 0
	}
	fmt.Printf("chain BROKEN: case %s broken at evidence %s\n", *caseID, result.BrokenAt)
	return 2
}

func runLedgerVerify(args []string) int {
	fs := flag.NewFlagSet("ledger verify", flag.ContinueOnError)
	cf := bindClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	body, err := cf.get("/api/v1/audit/verify")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	var result struct {
		Valid  bool `json:"valid"`
		Breaks []struct {
			EntryID  string `json:"entry_id"`
			Expected string `json:"expected"`
			Stored   string `json:"stored"`
		} `json:"breaks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Fprintf(os.Stderr, "error: unexpected response: %v\n", err)
		return 1
	}
	if result.Valid {
		fmt.Println("ledger OK")
		return 0
	}
	fmt.Printf("ledger BROKEN: %d entries fail verification\n", len(result.Breaks))
	for _, b := range result.Breaks {
		fmt.Printf("  %s expected=%s stored=%s\n", b.EntryID, b.Expected, b.Stored)
	}
	return 2
}

func (cf *clientFlags) get(path string) ([]byte, error) {
	if strings.TrimSpace(cf.firm) == "" {
		return nil, fmt.Errorf("--firm (or VERITAS_FIRM) is required")
	}
	req, err := http.NewRequest(http.MethodGet, strings.TrimRight(cf.addr, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Principal-Subject", cf.subject)
	req.Header.Set("X-Principal-Firm", cf.firm)
	req.Header.Set("X-Principal-Roles", cf.roles)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
