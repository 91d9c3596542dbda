package parity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audlab/audparity/internal/session"
)

func record(openRet, files, channels, samples int32) session.Record {
	return session.Record{
		OpenRet:     openRet,
		NumFiles:    files,
		NumChannels: channels,
		SampleCount: samples,
	}
}

func TestCompare_EqualRuns_Pass(t *testing.T) {
	// Given: both libraries opened the file and agree on every count
	original := record(0, 1, 2, 100)
	rebuilt := record(0, 1, 2, 100)

	// When: comparing
	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	// Then: PASS with an empty mismatch list
	assert.Equal(t, Pass, v.Status)
	assert.Empty(t, v.Mismatches)
	assert.True(t, v.Passed())
}

func TestCompare_OpenRetMismatch_GatesEverything(t *testing.T) {
	// Given: both opens failed with different nonzero codes, neither the
	// divergence sentinel
	original := record(5, 7, 7, 7)
	rebuilt := record(7, 1, 2, 100)

	// When: comparing
	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	// Then: FAIL on open_ret alone; counts are not examined
	assert.Equal(t, Fail, v.Status)
	require.Len(t, v.Mismatches, 1)
	assert.Equal(t, "open_ret", v.Mismatches[0].Field)
	assert.Equal(t, int64(5), v.Mismatches[0].Original)
	assert.Equal(t, int64(7), v.Mismatches[0].Rebuilt)
}

func TestCompare_ChannelCountMismatch(t *testing.T) {
	original := record(0, 1, 2, 100)
	rebuilt := record(0, 1, 1, 100)

	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	assert.Equal(t, Fail, v.Status)
	require.Len(t, v.Mismatches, 1)
	assert.Equal(t, "num_channels", v.Mismatches[0].Field)
	assert.Equal(t, int64(2), v.Mismatches[0].Original)
	assert.Equal(t, int64(1), v.Mismatches[0].Rebuilt)
}

func TestCompare_AccumulatesAllCountMismatches(t *testing.T) {
	// Given: open agrees but every count differs
	original := record(0, 1, 2, 100)
	rebuilt := record(0, 2, 1, 99)

	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	// Then: all three mismatches are reported, in field order
	assert.Equal(t, Fail, v.Status)
	require.Len(t, v.Mismatches, 3)
	assert.Equal(t, "num_files", v.Mismatches[0].Field)
	assert.Equal(t, "num_channels", v.Mismatches[1].Field)
	assert.Equal(t, "sample_count", v.Mismatches[2].Field)
}

func TestCompare_ExpectedDivergence_PassWithNote(t *testing.T) {
	// Given: the original requires a hosting context (-28) and the rebuilt
	// opened the file within sanity bounds
	original := record(DefaultDivergenceSentinel, -1, -1, -1)
	rebuilt := record(0, 1, 2, 100)

	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	assert.Equal(t, PassWithNote, v.Status)
	assert.Empty(t, v.Mismatches)
	assert.NotEmpty(t, v.Notes)
	assert.True(t, v.Passed())
}

func TestCompare_ExpectedDivergence_BoundViolations(t *testing.T) {
	tests := []struct {
		name    string
		rebuilt session.Record
		field   string
	}{
		{"num_files must equal 1", record(0, 2, 2, 100), "num_files"},
		{"num_channels must be >= 1", record(0, 1, 0, 100), "num_channels"},
		{"sample_count must be >= 1", record(0, 1, 2, 0), "sample_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := record(DefaultDivergenceSentinel, -1, -1, -1)

			v := Compare(original, tt.rebuilt, DefaultDivergenceSentinel)

			assert.Equal(t, Fail, v.Status)
			require.NotEmpty(t, v.Mismatches)
			assert.Equal(t, tt.field, v.Mismatches[0].Field)
		})
	}
}

func TestCompare_DivergenceSentinelIsConfigurable(t *testing.T) {
	// Given: a deployment where the hosting-context code is -99
	original := record(-99, -1, -1, -1)
	rebuilt := record(0, 1, 2, 100)

	// Then: -99 triggers the divergence rule, -28 does not
	assert.Equal(t, PassWithNote, Compare(original, rebuilt, -99).Status)
	assert.Equal(t, Fail, Compare(original, rebuilt, DefaultDivergenceSentinel).Status)
}

func TestCompare_SampleValuesAreInformationalOnly(t *testing.T) {
	// Given: counts agree but the actual sample values differ
	original := record(0, 1, 2, 100)
	original.FirstSample = 0.5
	original.LastSample = -0.25
	rebuilt := record(0, 1, 2, 100)
	rebuilt.FirstSample = 0.6
	rebuilt.LastSample = -0.25

	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	// Then: still PASS; the divergence shows up only as a note
	assert.Equal(t, Pass, v.Status)
	assert.Empty(t, v.Mismatches)
	require.Len(t, v.Notes, 1)
	assert.Contains(t, v.Notes[0], "first_sample")
}

func TestCompare_BothSentinelRecords_Pass(t *testing.T) {
	// Given: neither library could be bound; both records are sentinel-filled
	original := session.Skipped("original", "f.wav")
	rebuilt := session.Skipped("rebuilt", "f.wav")

	v := Compare(original, rebuilt, DefaultDivergenceSentinel)

	// Then: the records agree field by field
	assert.Equal(t, Pass, v.Status)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "PASS", Pass.String())
	assert.Equal(t, "PASS-WITH-NOTE", PassWithNote.String())
	assert.Equal(t, "FAIL", Fail.String())
}
