package crawl

import (
	"regexp"
	"strings"

	"github.com/cy2753/edgar8k/client"
)

// Press releases conventionally ship as Exhibit 99 variants and EDGAR
// manifests don't label them reliably, so selection is heuristic: a name
// pass first, then a type+name pass. The rules can select an unrelated
// exhibit whose name happens to contain "99"; exhibit content is never
// verified.
var (
	exhibitNameRe = regexp.MustCompile(`ex-?99`)
	exhibitDescRe = regexp.MustCompile(`(?i)exhibit\s*99`)
)

// FindExhibit picks the press release exhibit from a filing's manifest, or
// "" when no entry matches. First match wins in each pass; no match is a
// coverage gap, not an error.
func FindExhibit(items []client.ArchiveItem) string {
	for i := range items {
		name := strings.ToLower(items[i].Name)
		if strings.Contains(name, "ex99") ||
			strings.Contains(name, "exhibit99") ||
			exhibitNameRe.MatchString(name) {
			return items[i].Name
		}
	}

	for i := range items {
		desc := strings.ToLower(items[i].Type + " " + items[i].Name)
		if exhibitDescRe.MatchString(desc) {
			return items[i].Name
		}
	}

	return ""
}
