package crawl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cy2753/edgar8k/client"
	"github.com/cy2753/edgar8k/internal/results"
)

// crawlFiler walks one filer's recent filings and collects a row per
// qualifying 8-K. A failed filing download aborts that filing only; the
// rest of the filer's filings still get collected.
func (self *Crawl) crawlFiler(ctx context.Context, cik string,
) ([]results.Row, error) {
	subs, err := self.submissions(ctx, cik)
	if err != nil {
		return nil, err
	}

	filings := selectFilings(subs.Recent(), cik, self.start, self.end, self.skip)
	if len(filings) == 0 {
		return nil, nil
	}
	self.log(ctx).Info("qualifying filings", slog.Int("count", len(filings)))

	rows := make([]results.Row, 0, len(filings))
	for i := range filings {
		filing := &filings[i]
		row, err := self.collectFiling(ctx, cik, filing)
		if err != nil {
			self.log(ctx).Warn("skip filing",
				slog.String("accession", filing.AccessionNumber),
				slog.Any("error", err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (self *Crawl) submissions(ctx context.Context, cik string,
) (client.CompanySubmissions, error) {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()
	return self.edgar.Submissions(ctx, cik)
}

// collectFiling downloads the primary document and, when one is found, the
// press release exhibit. A manifest fetch failure or a failed exhibit
// download only costs the exhibit; a failed primary document download
// fails the filing.
func (self *Crawl) collectFiling(ctx context.Context, cik string,
	filing *client.Filing,
) (row results.Row, err error) {
	archPath := filing.ArchivePath(cik)

	mainLocal, err := self.download(ctx, archPath, filing.PrimaryDocument, cik,
		filing.AccessionNoDashes())
	if err != nil {
		return row, fmt.Errorf("primary document: %w", err)
	}

	docURL, err := self.edgar.ArchiveFileURL(
		archPath + "/" + filing.PrimaryDocument)
	if err != nil {
		return row, err
	}

	row = results.Row{
		CIK:        cik,
		Accession:  filing.AccessionNumber,
		FilingDate: filing.FilingDate,
		DocURL:     docURL,
		MainLocal:  mainLocal,
	}

	exhibitName := self.locateExhibit(ctx, archPath)
	if exhibitName == "" {
		return row, nil
	}

	row.Exhibit99URL, err = self.edgar.ArchiveFileURL(
		archPath + "/" + exhibitName)
	if err != nil {
		return row, err
	}

	exhibitLocal, err := self.download(ctx, archPath, exhibitName, cik,
		filing.AccessionNoDashes())
	if err != nil {
		// a missing exhibit is a coverage gap, not a failure
		self.log(ctx).Warn("exhibit download failed",
			slog.String("accession", filing.AccessionNumber),
			slog.Any("error", err))
		return row, nil
	}
	row.Exhibit99Local = exhibitLocal
	return row, nil
}

// locateExhibit lists the filing's manifest and picks the press release
// exhibit. Any failure here means "no exhibit found".
func (self *Crawl) locateExhibit(ctx context.Context, archPath string) string {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	index, err := self.edgar.IndexArchive(ctx, archPath)
	if err != nil {
		self.log(ctx).Warn("no exhibit: manifest fetch failed",
			slog.String("path", archPath), slog.Any("error", err))
		return ""
	}
	return FindExhibit(index.Items())
}

// download fetches one file into the artifact tree, skipping files already
// present with non-zero size. Returns the local path.
func (self *Crawl) download(ctx context.Context, archPath, fname,
	cik, accNoDashes string,
) (string, error) {
	localPath := self.store.Path(cik, accNoDashes, fname)
	if self.store.Has(localPath) {
		return localPath, nil
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	body, err := self.edgar.GetArchiveBody(ctx, archPath+"/"+fname)
	if err != nil {
		return "", fmt.Errorf("download error: %w", err)
	}
	defer body.Close()

	if err := self.store.Save(localPath, body); err != nil {
		return "", fmt.Errorf("download error: %w", err)
	}
	return localPath, nil
}
