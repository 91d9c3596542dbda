// Package parity reconciles the two run records into a pass/fail verdict.
//
// One divergence is expected and documented: the original build returns a
// specific nonzero open code when it is loaded outside the hosting context
// it was built for. In that case the rebuilt record is validated against
// sanity bounds on its own instead of field-by-field against the original.
package parity

import (
	"fmt"

	"github.com/audlab/audparity/internal/session"
)

// DefaultDivergenceSentinel is the open return code observed from the
// original build when the hosting context is missing. Overridable from
// configuration; it is a reverse-engineered constant, not a contract.
const DefaultDivergenceSentinel int32 = -28

// Status is the outcome class of a comparison.
type Status int

const (
	// Pass means every compared field matched.
	Pass Status = iota
	// PassWithNote means the expected-divergence rule applied and the
	// rebuilt record satisfied all sanity bounds.
	PassWithNote
	// Fail means at least one compared field differed or a sanity bound
	// was violated.
	Fail
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case PassWithNote:
		return "PASS-WITH-NOTE"
	case Fail:
		return "FAIL"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Mismatch is one field-level divergence: the field name and the value each
// side produced.
type Mismatch struct {
	Field    string
	Original int64
	Rebuilt  int64
}

// String implements fmt.Stringer.
func (m Mismatch) String() string {
	return fmt.Sprintf("%s: original=%d rebuilt=%d", m.Field, m.Original, m.Rebuilt)
}

// Verdict is the immutable outcome of comparing two run records.
type Verdict struct {
	Status     Status
	Mismatches []Mismatch
	Notes      []string
}

// Passed reports whether the verdict allows a zero exit code.
func (v Verdict) Passed() bool {
	return v.Status == Pass || v.Status == PassWithNote
}

// Compare reconciles the original and rebuilt runs.
//
// When original.OpenRet equals the divergence sentinel and the rebuilt
// build opened the file, the rebuilt record alone is checked against sanity
// bounds (one file, at least one channel, at least one sample).
//
// Otherwise open_ret gates everything: if it differs, the verdict carries
// exactly that mismatch. When open_ret matches, the three counts are
// examined in order and every divergent one is accumulated. Sample values
// are informational only and never gate the verdict.
func Compare(original, rebuilt session.Record, divergenceSentinel int32) Verdict {
	if original.OpenRet == divergenceSentinel && rebuilt.OpenRet == 0 {
		return validateRebuiltAlone(original, rebuilt, divergenceSentinel)
	}

	var v Verdict

	if original.OpenRet != rebuilt.OpenRet {
		v.Status = Fail
		v.Mismatches = append(v.Mismatches, Mismatch{
			Field:    "open_ret",
			Original: int64(original.OpenRet),
			Rebuilt:  int64(rebuilt.OpenRet),
		})
		return v
	}

	counts := []struct {
		field    string
		original int32
		rebuilt  int32
	}{
		{"num_files", original.NumFiles, rebuilt.NumFiles},
		{"num_channels", original.NumChannels, rebuilt.NumChannels},
		{"sample_count", original.SampleCount, rebuilt.SampleCount},
	}
	for _, c := range counts {
		if c.original != c.rebuilt {
			v.Mismatches = append(v.Mismatches, Mismatch{
				Field:    c.field,
				Original: int64(c.original),
				Rebuilt:  int64(c.rebuilt),
			})
		}
	}
	if len(v.Mismatches) > 0 {
		v.Status = Fail
		return v
	}

	v.Status = Pass
	v.Notes = append(v.Notes, sampleNotes(original, rebuilt)...)
	return v
}

// validateRebuiltAlone applies the expected-divergence rule: the original
// cannot open files outside its hosting context, so the rebuilt run is
// held to sanity bounds instead of parity.
func validateRebuiltAlone(original, rebuilt session.Record, sentinel int32) Verdict {
	v := Verdict{
		Notes: []string{fmt.Sprintf(
			"original returned open_ret=%d (requires hosting context); rebuilt validated against sanity bounds only", sentinel)},
	}

	if rebuilt.NumFiles != 1 {
		v.Mismatches = append(v.Mismatches, Mismatch{
			Field: "num_files", Original: 1, Rebuilt: int64(rebuilt.NumFiles),
		})
		v.Notes = append(v.Notes, "bound violated: num_files must equal 1")
	}
	if rebuilt.NumChannels < 1 {
		v.Mismatches = append(v.Mismatches, Mismatch{
			Field: "num_channels", Original: 1, Rebuilt: int64(rebuilt.NumChannels),
		})
		v.Notes = append(v.Notes, "bound violated: num_channels must be >= 1")
	}
	if rebuilt.SampleCount < 1 {
		v.Mismatches = append(v.Mismatches, Mismatch{
			Field: "sample_count", Original: 1, Rebuilt: int64(rebuilt.SampleCount),
		})
		v.Notes = append(v.Notes, "bound violated: sample_count must be >= 1")
	}

	if len(v.Mismatches) > 0 {
		v.Status = Fail
		return v
	}
	v.Status = PassWithNote
	return v
}

// sampleNotes reports first/last sample divergence as informational notes.
func sampleNotes(original, rebuilt session.Record) []string {
	var notes []string
	if original.FirstSample != rebuilt.FirstSample {
		notes = append(notes, fmt.Sprintf(
			"first_sample differs (informational): original=%g rebuilt=%g",
			original.FirstSample, rebuilt.FirstSample))
	}
	if original.LastSample != rebuilt.LastSample {
		notes = append(notes, fmt.Sprintf(
			"last_sample differs (informational): original=%g rebuilt=%g",
			original.LastSample, rebuilt.LastSample))
	}
	return notes
}
