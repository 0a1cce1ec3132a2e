package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const companyTickersName = "company_tickers.json"

// companyTickers is keyed by a meaningless row number ("0", "1", ...).
type companyTickers map[string]CompanyTicker

type CompanyTicker struct {
	CIK    uint32 `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// CIK10 returns the 10 digit zero-padded form used by the submissions API
// and the output index.
func (self CompanyTicker) CIK10() string {
	return fmt.Sprintf("%010d", self.CIK)
}

// CompanyTickers fetches the bulk ticker to CIK table and returns it keyed
// by upper-cased ticker.
func (self *Client) CompanyTickers(ctx context.Context,
) (map[string]CompanyTicker, error) {
	url, err := url.JoinPath(self.FilesBaseURL(), companyTickersName)
	if err != nil {
		return nil, fmt.Errorf("join path %q: %w", companyTickersName, err)
	}

	var tickers companyTickers
	if err := self.GetJSON(ctx, url, &tickers); err != nil {
		return nil, err
	}

	byTicker := make(map[string]CompanyTicker, len(tickers))
	for _, company := range tickers {
		byTicker[strings.ToUpper(company.Ticker)] = company
	}
	return byTicker, nil
}
