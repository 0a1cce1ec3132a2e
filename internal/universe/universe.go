// Package universe resolves a user supplied ticker/CIK table into a
// deduplicated list of 10 digit filer identifiers.
package universe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cy2753/edgar8k/client"
)

// ErrEmpty means no usable filer survived loading and resolution. Terminal
// for the whole run, not a per-row condition.
var ErrEmpty = errors.New(
	"no CIKs available after mapping: provide a CIK or a resolvable ticker")

type Entry struct {
	Ticker string
	CIK    string // 10 digit zero-padded, or "" until resolved
}

// NormCIK strips every non-digit character and zero-pads to 10 digits.
// Empty or digit-free input yields "".
func NormCIK(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) < 10 {
		return strings.Repeat("0", 10-len(digits)) + digits
	}
	return digits
}

// Load reads the universe CSV. tickerCol and cikCol name the columns to
// use; either may be empty. Extra columns are ignored. Rows with neither a
// ticker nor a CIK are dropped and the rest deduplicated on (ticker, CIK).
func Load(path, tickerCol, cikCol string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe %q: %w", path, err)
	}
	defer f.Close()

	entries, err := parse(f, tickerCol, cikCol)
	if err != nil {
		return nil, fmt.Errorf("parse universe %q: %w", path, err)
	}
	return entries, nil
}

func parse(r io.Reader, tickerCol, cikCol string) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	tickerIdx, cikIdx := colIndex(header, tickerCol), colIndex(header, cikCol)

	var entries []Entry
	seen := make(map[Entry]struct{})
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		entry := Entry{
			Ticker: strings.ToUpper(strings.TrimSpace(field(record, tickerIdx))),
			CIK:    NormCIK(field(record, cikIdx)),
		}
		if entry.Ticker == "" && entry.CIK == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}

func colIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// TickerLookup is the bulk ticker to filer id mapping service.
type TickerLookup interface {
	CompanyTickers(ctx context.Context) (map[string]client.CompanyTicker, error)
}

// Resolve fills missing CIKs from the lookup service and drops entries that
// stay unresolved. The lookup is consulted at most once, and only when some
// entry actually lacks a CIK. Returns ErrEmpty when nothing survives.
func Resolve(ctx context.Context, entries []Entry, lookup TickerLookup,
) ([]Entry, error) {
	var byTicker map[string]client.CompanyTicker
	resolved := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.CIK == "" {
			if byTicker == nil {
				tickers, err := lookup.CompanyTickers(ctx)
				if err != nil {
					return nil, fmt.Errorf("fetch ticker lookup: %w", err)
				}
				byTicker = tickers
			}
			company, ok := byTicker[strings.ToUpper(entry.Ticker)]
			if !ok {
				continue
			}
			entry.CIK = company.CIK10()
		}
		resolved = append(resolved, entry)
	}

	if len(resolved) == 0 {
		return nil, ErrEmpty
	}
	return resolved, nil
}
