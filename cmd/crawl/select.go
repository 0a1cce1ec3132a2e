package crawl

import (
	"regexp"

	"github.com/cy2753/edgar8k/client"
	"github.com/cy2753/edgar8k/internal/results"
)

const targetForm = "8-K"

// Upstream item fields are formatted inconsistently: sometimes bare codes
// ("2.02"), sometimes labels ("Item 2.02 Results of Operations"). Both
// shapes must qualify, so the match is intentionally permissive.
var (
	itemCodeRe  = regexp.MustCompile(`(^|\b)2\.02(\b|$)`)
	itemLabelRe = regexp.MustCompile(`(?i)item\s*2\.02`)
)

// selectFilings filters the filing history down to 8-Ks inside the
// inclusive [start, end] window that disclose Item 2.02 and aren't in the
// resume skip-set. Upstream order (most recent first) is preserved.
func selectFilings(filings []client.Filing, cik, start, end string,
	skip map[uint64]struct{},
) []client.Filing {
	var selected []client.Filing
	for i := range filings {
		filing := &filings[i]
		if filing.Form != targetForm {
			continue
		}
		// lexical comparison of ISO dates is date-correct
		if filing.FilingDate < start || filing.FilingDate > end {
			continue
		}
		if !hasItem202(filing.ItemCodes()) {
			continue
		}
		if _, ok := skip[results.Key(cik, filing.AccessionNumber)]; ok {
			continue
		}
		selected = append(selected, *filing)
	}
	return selected
}

func hasItem202(codes []string) bool {
	for _, code := range codes {
		if itemCodeRe.MatchString(code) || itemLabelRe.MatchString(code) {
			return true
		}
	}
	return false
}
