package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cy2753/edgar8k/client"
	"github.com/cy2753/edgar8k/cmd/internal/common"
	"github.com/cy2753/edgar8k/internal/results"
	"github.com/cy2753/edgar8k/internal/storage"
	"github.com/cy2753/edgar8k/internal/universe"
)

var (
	universePath string
	tickerCol    string
	cikCol       string
	startDate    string
	endDate      string
	dataDir      string
	outCSV       string
	resumeFrom   string
	batchStart   int
	batchSize    int
	procs        int

	Cmd = cobra.Command{
		Use:   "crawl",
		Short: "Download 8-K Item 2.02 filings and their press release exhibits",
		Long: `Resolves the universe file to CIKs, walks each filer's recent filings,
downloads the primary document and the Exhibit 99 press release of every
8-K with Item 2.02 in the date window, and merges the collected rows into
the output index CSV.

Needs EDGAR_UA set to your real contact per SEC policy:

  EDGAR_UA="Sally Yang sally@example.edu"`,
		Example: `
  - Crawl the S&P 500 over 2019-2025, 100 filers per session:

    $ edgar8k crawl --universe sp500.csv --ticker-col Symbol \
        --start 2019-01-01 --end 2025-12-31 \
        --out press_releases.csv --batch-start 0 --batch-size 100

  - Resume a previous session, skipping everything already recorded:

    $ edgar8k crawl --universe sp500.csv --ticker-col Symbol \
        --start 2019-01-01 --end 2025-12-31 \
        --out press_releases.csv --resume-from press_releases.csv`,
		Run: func(cmd *cobra.Command, args []string) {
			edgar, err := common.NewClient()
			cobra.CheckErr(err)
			cobra.CheckErr(run(cmd.Context(), edgar))
		},
	}
)

func init() {
	f := Cmd.Flags()
	f.StringVarP(&universePath, "universe", "u", "",
		"CSV with the tickers and/or CIKs to crawl")
	f.StringVar(&tickerCol, "ticker-col", "", "ticker column in the universe CSV")
	f.StringVar(&cikCol, "cik-col", "", "CIK column in the universe CSV")
	f.StringVar(&startDate, "start", "", "earliest filing date (YYYY-MM-DD)")
	f.StringVar(&endDate, "end", "", "latest filing date (YYYY-MM-DD)")
	f.StringVarP(&dataDir, "datadir", "d", "edgar_docs",
		"store downloaded documents under this directory")
	f.StringVarP(&outCSV, "out", "o", "press_releases.csv", "output index CSV")
	f.StringVar(&resumeFrom, "resume-from", "",
		"existing index CSV seeding the skip-set (deduplicate by cik+accession)")
	f.IntVar(&batchStart, "batch-start", 0, "start offset in the universe")
	f.IntVar(&batchSize, "batch-size", 0,
		"number of filers to process (0 = the rest)")
	f.IntVar(&procs, "procs", 1, "number of filers processed in parallel")

	for _, name := range []string{"universe", "start", "end"} {
		cobra.CheckErr(Cmd.MarkFlagRequired(name))
	}
}

func run(ctx context.Context, edgar *client.Client) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkDates(); err != nil {
		return err
	}

	entries, err := universe.Load(universePath, tickerCol, cikCol)
	if err != nil {
		return err
	}

	entries, err = universe.Resolve(ctx, entries, edgar)
	if err != nil {
		return err
	}
	slog.Info("universe resolved", slog.Int("filers", len(entries)))

	entries = window(entries, batchStart, batchSize)
	slog.Info("batch window", slog.Int("start", batchStart),
		slog.Int("filers", len(entries)))

	skip, err := loadSkipSet(resumeFrom)
	if err != nil {
		return err
	}

	c := NewCrawl(edgar, storage.NewDir(dataDir), startDate, endDate).
		WithSkipSet(skip).WithLogger(slog.Default()).WithProcsLimit(procs)
	outcomes := c.Run(ctx, entries)

	return report(outcomes)
}

func checkDates() error {
	for _, date := range []string{startDate, endDate} {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("invalid date %q: %w", date, err)
		}
	}
	return nil
}

// window slices [start, start+size) out of the resolved universe, so a
// large universe splits across sessions.
func window(entries []universe.Entry, start, size int) []universe.Entry {
	if start >= len(entries) {
		return nil
	} else if start < 0 {
		start = 0
	}
	entries = entries[start:]
	if size > 0 && size < len(entries) {
		entries = entries[:size]
	}
	return entries
}

func loadSkipSet(path string) (map[uint64]struct{}, error) {
	if path == "" {
		return nil, nil
	}
	prior, err := results.Read(path)
	if err != nil {
		return nil, err
	}
	slog.Info("resume skip-set loaded", slog.String("from", path),
		slog.Int("keys", len(prior)))
	return results.SkipSet(prior), nil
}

func report(outcomes []FilerOutcome) error {
	var rows []results.Row
	var failed int
	for i := range outcomes {
		if outcomes[i].Err != nil {
			failed++
			continue
		}
		rows = append(rows, outcomes[i].Rows...)
	}
	if failed > 0 {
		slog.Warn("some filers failed", slog.Int("failed", failed),
			slog.Int("of", len(outcomes)))
	}

	total, wrote, err := results.SaveMerged(outCSV, rows)
	if err != nil {
		return err
	} else if !wrote {
		slog.Info("no 8-K Item 2.02 filings found in range")
		return nil
	}
	slog.Info("saved index", slog.Int("new", len(rows)),
		slog.Int("total", total), slog.String("path", outCSV))
	return nil
}
