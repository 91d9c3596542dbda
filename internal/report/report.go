// Package report renders run records and verdicts.
//
// The machine-readable report (a JSON array of exactly two run records)
// goes to stdout; human diagnostics and the verdict go to stderr.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"

	apperrors "github.com/audlab/audparity/internal/errors"
	"github.com/audlab/audparity/internal/parity"
	"github.com/audlab/audparity/internal/session"
)

// WriteRecords writes the two-element record array as indented JSON.
func WriteRecords(w io.Writer, original, rebuilt session.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode([]session.Record{original, rebuilt})
}

// Results is the payload persisted to the results file, mirroring what the
// CI pipeline archives per run.
type Results struct {
	Timestamp string           `json:"timestamp"`
	Verdict   string           `json:"verdict"`
	Records   []session.Record `json:"records"`
	Mismatch  []string         `json:"mismatches,omitempty"`
	Notes     []string         `json:"notes,omitempty"`
}

// SaveResults writes the run's results to path, holding a sibling file
// lock for the duration of the write so concurrent harness invocations
// sharing a results file never interleave.
func SaveResults(path string, original, rebuilt session.Record, v parity.Verdict) error {
	res := Results{
		Timestamp: time.Now().Format(time.RFC3339),
		Verdict:   v.Status.String(),
		Records:   []session.Record{original, rebuilt},
		Notes:     v.Notes,
	}
	for _, m := range v.Mismatches {
		res.Mismatch = append(res.Mismatch, m.String())
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return apperrors.New(apperrors.ErrCodeResultsWrite,
			fmt.Sprintf("cannot lock results file %s", path), err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeResultsWrite, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return apperrors.New(apperrors.ErrCodeResultsWrite,
			fmt.Sprintf("cannot write results file %s", path), err)
	}
	return nil
}
