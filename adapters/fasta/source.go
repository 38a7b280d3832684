package fasta

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"motifsig/domain/core"
	"motifsig/domain/seq"
	"motifsig/ports"
)

// Source is a SequenceSource backed by a FASTA file. The file is parsed once
// at construction and intervals are sliced from memory; reference windows
// are small relative to the files this tool works with.
type Source struct {
	records map[string]seq.Sequence
}

// Open parses the FASTA file at path. Records are keyed by the first word of
// their header line. Files ending in .gz are decompressed transparently.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewSequenceError(path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, core.NewSequenceError(path, err)
		}
		defer gz.Close()
		r = gz
	}

	records, err := parse(r)
	if err != nil {
		return nil, core.NewSequenceError(path, err)
	}
	return &Source{records: records}, nil
}

var _ ports.SequenceSource = (*Source)(nil)

// Fetch returns the sub-sequence covering iv, 1-based inclusive.
func (s *Source) Fetch(_ context.Context, iv seq.Interval) (seq.Sequence, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	rec, ok := s.records[iv.Name]
	if !ok {
		return nil, core.NewSequenceError(iv.Name, fmt.Errorf("no such record"))
	}
	if iv.End > rec.Len() {
		return nil, core.NewSequenceError(iv.String(),
			fmt.Errorf("interval end %d past record length %d", iv.End, rec.Len()))
	}
	return rec[iv.Start-1 : iv.End], nil
}

// Names returns the record names present in the file.
func (s *Source) Names() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	return names
}

func parse(r io.Reader) (map[string]seq.Sequence, error) {
	records := make(map[string]seq.Sequence)
	var name string
	var body strings.Builder

	flush := func() {
		if name != "" {
			records[name] = seq.New(body.String())
		}
		body.Reset()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("empty FASTA header")
			}
			name = fields[0]
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("sequence data before first header")
		}
		body.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(records) == 0 {
		return nil, fmt.Errorf("no FASTA records found")
	}
	return records, nil
}
