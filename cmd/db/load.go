package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cy2753/edgar8k/internal/repo"
	"github.com/cy2753/edgar8k/internal/results"
)

// Filings is the subset of repo.Repo the loader needs.
type Filings interface {
	AddFiling(ctx context.Context, filing repo.Filing) (bool, error)
	CopyFilings(ctx context.Context, length int,
		next func(i int) (repo.Filing, error)) error
	CountFilings(ctx context.Context) (int64, error)
}

func loadIndex(ctx context.Context, r Filings, path string) error {
	rows, err := results.Read(path)
	if err != nil {
		return err
	} else if len(rows) == 0 {
		slog.Info("nothing to load", slog.String("path", path))
		return nil
	}

	known, err := r.CountFilings(ctx)
	if err != nil {
		return err
	}

	if known == 0 {
		err = copyRows(ctx, r, rows)
	} else {
		err = addRows(ctx, r, rows)
	}
	if err != nil {
		return fmt.Errorf("load index %q: %w", path, err)
	}

	total, err := r.CountFilings(ctx)
	if err != nil {
		return err
	}
	slog.Info("index loaded", slog.String("path", path),
		slog.Int("rows", len(rows)), slog.Int64("filings", total))
	return nil
}

// copyRows bulk-loads into an empty table.
func copyRows(ctx context.Context, r Filings, rows []results.Row) error {
	return r.CopyFilings(ctx, len(rows), func(i int) (repo.Filing, error) {
		return repoFiling(&rows[i])
	})
}

// addRows inserts one by one, skipping filings already known.
func addRows(ctx context.Context, r Filings, rows []results.Row) error {
	var added int
	for i := range rows {
		filing, err := repoFiling(&rows[i])
		if err != nil {
			return err
		}
		unknown, err := r.AddFiling(ctx, filing)
		if err != nil {
			return err
		} else if unknown {
			added++
		}
	}
	slog.Info("new filings", slog.Int("added", added),
		slog.Int("of", len(rows)))
	return nil
}

func repoFiling(row *results.Row) (filing repo.Filing, err error) {
	cik, err := strconv.ParseUint(row.CIK, 10, 32)
	if err != nil {
		return filing, fmt.Errorf("parse CIK %q: %w", row.CIK, err)
	}

	filed, err := time.Parse(time.DateOnly, row.FilingDate)
	if err != nil {
		return filing, fmt.Errorf("parse filing date %q: %w", row.FilingDate, err)
	}

	return repo.Filing{
		CIK:        uint32(cik),
		Accession:  row.Accession,
		FilingDate: filed,

		DocURL:         row.DocURL,
		Exhibit99URL:   row.Exhibit99URL,
		MainLocal:      row.MainLocal,
		Exhibit99Local: row.Exhibit99Local,
	}, nil
}
