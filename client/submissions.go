package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// CompanySubmissions is the per-filer filing history from the submissions
// API. Only the "recent" window is exposed; older filings live in paginated
// extension files this crawler doesn't consume.
type CompanySubmissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings carries the filing history as parallel arrays, zipped by
// positional index. Upstream array lengths may disagree, so any access goes
// through Filings, which pads short arrays with empty values.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
	Items           []string `json:"items"`
}

func (self *CompanySubmissions) Recent() []Filing {
	return self.Filings.Recent.Filings()
}

func (self *RecentFilings) Filings() []Filing {
	filings := make([]Filing, len(self.Form))
	for i := range self.Form {
		filings[i] = Filing{
			Form:            self.Form[i],
			AccessionNumber: at(self.AccessionNumber, i),
			FilingDate:      at(self.FilingDate, i),
			PrimaryDocument: at(self.PrimaryDocument, i),
			Items:           at(self.Items, i),
		}
	}
	return filings
}

func at(items []string, i int) string {
	if i >= len(items) {
		return ""
	}
	return items[i]
}

// Filing is one row of the history, assembled from the parallel arrays.
type Filing struct {
	Form            string
	AccessionNumber string
	FilingDate      string
	PrimaryDocument string
	Items           string
}

// ItemCodes splits the pipe-delimited disclosure item field into trimmed,
// non-empty tokens.
func (self *Filing) ItemCodes() []string {
	fields := strings.Split(self.Items, "|")
	codes := make([]string, 0, len(fields))
	for _, s := range fields {
		if s = strings.TrimSpace(s); s != "" {
			codes = append(codes, s)
		}
	}
	return codes
}

func (self *Filing) AccessionNoDashes() string {
	return strings.ReplaceAll(self.AccessionNumber, "-", "")
}

// ArchivePath is the /Archives/edgar path of the directory holding this
// filing's files. EDGAR uses the unpadded CIK there.
func (self *Filing) ArchivePath(cik string) string {
	short := strings.TrimLeft(cik, "0")
	if short == "" {
		short = "0"
	}
	return "data/" + short + "/" + self.AccessionNoDashes()
}

// Submissions fetches the filing history of one filer, identified by its 10
// digit zero-padded CIK.
func (self *Client) Submissions(ctx context.Context, cik string,
) (subs CompanySubmissions, err error) {
	url, err := url.JoinPath(self.SubmissionsBaseURL(), "submissions",
		"CIK"+cik+".json")
	if err != nil {
		return subs, fmt.Errorf("join submissions path for CIK=%v: %w", cik, err)
	}
	if err := self.GetJSON(ctx, url, &subs); err != nil {
		return subs, fmt.Errorf("submissions of CIK=%v: %w", cik, err)
	}
	return subs, nil
}
