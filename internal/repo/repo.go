// Package repo stores the collected filing index in Postgres.
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var filingCols = [...]string{
	"cik", "accession", "filing_date", "doc_url", "exhibit99_url",
	"main_local", "exhibit99_local",
}

func New(db Postgreser) *Repo {
	return &Repo{db: db}
}

type Repo struct {
	db Postgreser
}

type Postgreser interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string,
		rowSrc pgx.CopyFromSource) (int64, error)
}

type Filing struct {
	CIK        uint32    `db:"cik"`
	Accession  string    `db:"accession"`
	FilingDate time.Time `db:"filing_date"`

	DocURL         string `db:"doc_url"`
	Exhibit99URL   string `db:"exhibit99_url"`
	MainLocal      string `db:"main_local"`
	Exhibit99Local string `db:"exhibit99_local"`
}

func (self *Repo) CreateSchema(ctx context.Context, schemaSQL string) error {
	if _, err := self.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// AddFiling inserts one filing and reports whether it was unknown before.
func (self *Repo) AddFiling(ctx context.Context, filing Filing) (bool, error) {
	cmdTag, err := self.db.Exec(ctx, `
INSERT INTO filings (cik, accession, filing_date, doc_url, exhibit99_url,
                     main_local, exhibit99_local)
  VALUES            ($1,  $2,        $3,          $4,      $5,
                     $6,         $7)
  ON CONFLICT DO NOTHING`,
		filing.CIK, filing.Accession, filing.FilingDate, filing.DocURL,
		filing.Exhibit99URL, filing.MainLocal, filing.Exhibit99Local)
	if err != nil {
		return false, fmt.Errorf("add filing CIK=%v accession=%q: %w",
			filing.CIK, filing.Accession, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// CopyFilings bulk-loads filings into an empty or freshly truncated table.
// CopyFrom can't skip conflicts, so use AddFiling for incremental loads.
func (self *Repo) CopyFilings(ctx context.Context, length int,
	next func(i int) (Filing, error),
) error {
	n, err := self.db.CopyFrom(ctx, pgx.Identifier{"filings"}, filingCols[:],
		pgx.CopyFromSlice(length, func(i int) ([]any, error) {
			filing, err := next(i)
			if err != nil {
				return nil, err
			}
			values := []any{
				filing.CIK, filing.Accession, filing.FilingDate, filing.DocURL,
				filing.Exhibit99URL, filing.MainLocal, filing.Exhibit99Local,
			}
			return values, nil
		}))
	if err != nil {
		return fmt.Errorf("failed copy %v filings: %w", length, err)
	} else if n != int64(length) {
		return fmt.Errorf("copied %v filings instead of %v", n, length)
	}
	return nil
}

func (self *Repo) CountFilings(ctx context.Context) (int64, error) {
	rows, err := self.db.Query(ctx, `SELECT COUNT(*) FROM filings`)
	if err != nil {
		return 0, fmt.Errorf("repo.CountFilings: %w", err)
	}

	cnt, err := pgx.CollectExactlyOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("repo.CountFilings: %w", err)
	}
	return cnt, nil
}
