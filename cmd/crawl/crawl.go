package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cy2753/edgar8k/client"
	"github.com/cy2753/edgar8k/internal/results"
	"github.com/cy2753/edgar8k/internal/storage"
	"github.com/cy2753/edgar8k/internal/universe"
)

const (
	// submissions, ticker table and index.json are small JSON documents
	metadataTimeout = 30 * time.Second
	// filing documents and exhibits can be large
	downloadTimeout = 60 * time.Second
)

func NewCrawl(edgar *client.Client, store *storage.Dir, start, end string,
) *Crawl {
	return &Crawl{
		edgar: edgar,
		store: store,

		start: start,
		end:   end,

		procs: 1,
	}
}

type Crawl struct {
	edgar *client.Client
	store *storage.Dir

	start string // inclusive date window, ISO strings
	end   string

	skip   map[uint64]struct{}
	procs  int
	logger *slog.Logger
}

// WithSkipSet seeds the resume skip-set of key hashes. The set is read-only
// for the whole run.
func (self *Crawl) WithSkipSet(skip map[uint64]struct{}) *Crawl {
	self.skip = skip
	return self
}

func (self *Crawl) WithProcsLimit(n int) *Crawl {
	if n > 0 {
		self.procs = n
	}
	return self
}

func (self *Crawl) WithLogger(l *slog.Logger) *Crawl {
	self.logger = l
	return self
}

func (self *Crawl) log(ctx context.Context) *slog.Logger {
	l := ContextLogger(ctx, self.logger)
	if l == nil {
		return slog.Default()
	}
	return l
}

// FilerOutcome is the result of one filer: either its collected rows or the
// failure that aborted it. A failed filer never contributes partial rows.
type FilerOutcome struct {
	CIK  string
	Rows []results.Row
	Err  error
}

// Run processes every filer and returns one outcome per filer, in input
// order. A failed filer is recorded and skipped; it never aborts the batch.
func (self *Crawl) Run(ctx context.Context, filers []universe.Entry,
) []FilerOutcome {
	outcomes := make([]FilerOutcome, len(filers))
	if len(filers) == 0 {
		return outcomes
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var progress atomic.Uint32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		self.logProgress(ctx, &progress, len(filers))
	}()

	self.crawlFilers(ctx, filers, outcomes, &progress)
	cancel()
	wg.Wait()
	return outcomes
}

func (self *Crawl) crawlFilers(ctx context.Context, filers []universe.Entry,
	outcomes []FilerOutcome, progress *atomic.Uint32,
) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(self.procs)
	for i := range filers {
		if ctx.Err() != nil {
			break
		}
		i, entry := i, filers[i]
		l := self.log(ctx).With(slog.String("CIK", entry.CIK),
			slog.String("ticker", entry.Ticker))
		g.Go(func() error {
			defer progress.Add(1)
			rows, err := self.crawlFiler(ContextWithLogger(ctx, l), entry.CIK)
			if err != nil {
				l.Warn("skip filer", slog.Any("error", err))
				rows = nil
			}
			outcomes[i] = FilerOutcome{CIK: entry.CIK, Rows: rows, Err: err}
			return nil
		})
	}
	_ = g.Wait()
}

func (self *Crawl) logProgress(ctx context.Context, progress *atomic.Uint32,
	total int,
) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			self.log(ctx).Info("crawling filers", slog.String("progress",
				fmt.Sprintf("%v/%v", progress.Load(), total)))
		}
	}
}
