// Package pldb reads languages from a local clone of the PLDB knowledge
// base. Every *.pldb and *.scroll file is parsed as key/value blocks and
// accepted or rejected by path, name and property evidence.
package pldb

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"

	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Stats counts the outcome of a scan.
type Stats struct {
	Files        int `json:"files"`
	Accepted     int `json:"accepted"`
	Unreadable   int `json:"unreadable"`
	RejectedPath int `json:"rejected_path"`
	RejectedName int `json:"rejected_name"`
	NoEvidence   int `json:"no_evidence"`
}

// Rejected returns the number of files read but not taken as languages.
func (s Stats) Rejected() int {
	return s.RejectedPath + s.RejectedName + s.NoEvidence
}

// Source scans a PLDB directory.
type Source struct {
	dir      string
	progress bool
	stats    Stats
}

// Option configures a Source.
type Option func(*Source)

// WithProgress shows a progress bar on stderr while scanning.
func WithProgress(enabled bool) Option {
	return func(s *Source) { s.progress = enabled }
}

// New creates a source for the PLDB clone at dir.
func New(dir string, opts ...Option) *Source {
	s := &Source{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the source tag.
func (s *Source) ID() sources.ID { return sources.PLDBID }

// Stats returns the counts of the last Fetch.
func (s *Source) Stats() Stats { return s.stats }

// Fetch scans the directory and returns one record per accepted file.
func (s *Source) Fetch(ctx context.Context) ([]sources.Record, error) {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return nil, errors.NewNotFoundError("pldb directory", s.dir)
	}

	paths, err := files(s.dir)
	if err != nil {
		return nil, err
	}

	var bar *pb.ProgressBar
	if s.progress {
		bar = pb.Full.Start(len(paths))
		bar.Set("prefix", "Scanning PLDB: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	logger := logging.FromContext(ctx)
	stats := Stats{Files: len(paths)}
	var records []sources.Record
	for _, p := range paths {
		if bar != nil {
			bar.Increment()
		}
		data, err := os.ReadFile(p)
		if err != nil {
			stats.Unreadable++
			logger.Debug().Str("file", p).Err(err).Msg("Skipping unreadable PLDB file")
			continue
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			rel = p
		}
		rec, verdict := ParseFile(strings.ToValidUTF8(string(data), ""), filepath.ToSlash(rel))
		switch verdict {
		case Accepted:
			stats.Accepted++
			records = append(records, rec)
		case RejectedPath:
			stats.RejectedPath++
		case RejectedName:
			stats.RejectedName++
		case RejectedNoEvidence:
			stats.NoEvidence++
		}
	}
	s.stats = stats

	logger.Info().
		Int("files", stats.Files).
		Int("records", stats.Accepted).
		Int("rejected", stats.Rejected()).
		Msg("Scanned PLDB")

	return records, nil
}

func files(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".pldb", ".scroll":
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("walk", root, err)
	}
	return out, nil
}
