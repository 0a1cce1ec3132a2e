// Package results maintains the crawl output index: a CSV of collected
// filings, deduplicated by (CIK, accession).
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

var header = []string{
	"cik", "accession", "filing_date", "doc_url", "exhibit99_url",
	"main_local", "exhibit99_local",
}

// Row is one collected filing. Exhibit fields stay empty when no press
// release exhibit was found or its download failed.
type Row struct {
	CIK            string
	Accession      string
	FilingDate     string
	DocURL         string
	Exhibit99URL   string
	MainLocal      string
	Exhibit99Local string
}

// Key hashes the "cik:accession" pair identifying one filing across all
// runs.
func (self *Row) Key() uint64 {
	return Key(self.CIK, self.Accession)
}

func Key(cik, accession string) uint64 {
	return xxhash.Sum64String(cik + ":" + accession)
}

func (self *Row) record() []string {
	return []string{
		self.CIK, self.Accession, self.FilingDate, self.DocURL,
		self.Exhibit99URL, self.MainLocal, self.Exhibit99Local,
	}
}

func rowFromRecord(record []string) Row {
	at := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return record[i]
	}
	return Row{
		CIK:            at(0),
		Accession:      at(1),
		FilingDate:     at(2),
		DocURL:         at(3),
		Exhibit99URL:   at(4),
		MainLocal:      at(5),
		Exhibit99Local: at(6),
	}
}

// Read loads an index file. A missing file is an empty index, not an error.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("open index %q: %w", path, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse index %q: %w", path, err)
	}
	return rows, nil
}

func parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rowFromRecord(record))
	}
	return rows, nil
}

// SkipSet builds the resume skip-set from prior rows. It's computed once at
// run start and never mutated afterwards: rows collected during the run are
// deduplicated only at merge time.
func SkipSet(rows []Row) map[uint64]struct{} {
	keys := make(map[uint64]struct{}, len(rows))
	for i := range rows {
		keys[rows[i].Key()] = struct{}{}
	}
	return keys
}

// Merge concatenates existing and new rows and drops duplicate keys keeping
// the first occurrence, so existing rows win over re-derived ones.
func Merge(existing, newRows []Row) []Row {
	merged := make([]Row, 0, len(existing)+len(newRows))
	seen := make(map[uint64]struct{}, len(existing)+len(newRows))
	for _, rows := range [][]Row{existing, newRows} {
		for _, row := range rows {
			key := row.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, row)
		}
	}
	return merged
}

// Write replaces the index file with the given rows.
func Write(path string, rows []Row) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create index %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header into %q: %w", path, err)
	}
	for i := range rows {
		if err := cw.Write(rows[i].record()); err != nil {
			return fmt.Errorf("write row into %q: %w", path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush index %q: %w", path, err)
	}
	return nil
}

// SaveMerged merges newRows into the index at path and writes it back.
// When the merged set is empty nothing is written, so an empty run never
// clobbers path with an empty file. Returns the merged row count and
// whether the file was written.
func SaveMerged(path string, newRows []Row) (int, bool, error) {
	existing, err := Read(path)
	if err != nil {
		return 0, false, err
	}

	merged := Merge(existing, newRows)
	if len(merged) == 0 {
		return 0, false, nil
	}

	if err := Write(path, merged); err != nil {
		return 0, false, err
	}
	return len(merged), true, nil
}
