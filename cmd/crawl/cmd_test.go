package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cy2753/edgar8k/internal/universe"
)

func TestWindow(t *testing.T) {
	entries := []universe.Entry{
		{CIK: "0000000001"}, {CIK: "0000000002"}, {CIK: "0000000003"},
	}

	tests := []struct {
		name        string
		start, size int
		want        []string
	}{
		{
			name: "whole universe",
			want: []string{"0000000001", "0000000002", "0000000003"},
		},
		{
			name:  "offset",
			start: 1,
			want:  []string{"0000000002", "0000000003"},
		},
		{
			name: "sized",
			size: 2,
			want: []string{"0000000001", "0000000002"},
		},
		{
			name:  "offset and size",
			start: 1,
			size:  1,
			want:  []string{"0000000002"},
		},
		{
			name: "size past the end",
			size: 10,
			want: []string{"0000000001", "0000000002", "0000000003"},
		},
		{
			name:  "offset past the end",
			start: 5,
			want:  nil,
		},
		{
			name:  "negative offset",
			start: -1,
			want:  []string{"0000000001", "0000000002", "0000000003"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := window(entries, tt.start, tt.size)
			ciks := make([]string, 0, len(got))
			for _, entry := range got {
				ciks = append(ciks, entry.CIK)
			}
			if tt.want == nil {
				assert.Empty(t, ciks)
			} else {
				assert.Equal(t, tt.want, ciks)
			}
		})
	}
}
