package session

import "fmt"

// Sentinel values for fields the protocol never resolved. They are chosen
// to be distinguishable from any legitimate value, including real zero.
const (
	// NotAttempted marks a return code for a step the protocol never
	// reached (binding failed, or an earlier step failed).
	NotAttempted int32 = -999

	// CountUnknown marks a count that was never determined.
	CountUnknown int32 = -1

	// SampleUnknown marks a sample value that was never read.
	SampleUnknown float64 = -999
)

// HexToken is a 32-bit session token that renders as a "0x%08x" string in
// JSON, matching the report contract.
type HexToken uint32

// MarshalJSON implements json.Marshaler.
func (t HexToken) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", fmt.Sprintf("0x%08x", uint32(t)))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *HexToken) UnmarshalJSON(data []byte) error {
	var v uint32
	if _, err := fmt.Sscanf(string(data), "\"0x%08x\"", &v); err != nil {
		return err
	}
	*t = HexToken(v)
	return nil
}

// Record is the externally observable outcome of driving one library
// through the protocol for one file. It is created fresh per run and never
// mutated after Run returns.
//
// Counts and sample values are only meaningful when OpenRet is 0; otherwise
// they keep their sentinels.
type Record struct {
	DLL              string   `json:"dll"`
	File             string   `json:"file"`
	InterfaceVersion float64  `json:"interface_version"`
	DLLVersion       float64  `json:"dll_version"`
	SessionMagic     HexToken `json:"session_magic"`
	OpenRet          int32    `json:"open_ret"`
	NumFiles         int32    `json:"num_files"`
	NumChannels      int32    `json:"num_channels"`
	SampleCount      int32    `json:"sample_count"`
	FirstSample      float64  `json:"first_sample"`
	LastSample       float64  `json:"last_sample"`
}

// Skipped returns the sentinel-filled record used when a library could not
// be bound at all. The oracle still gets both sides to compare.
func Skipped(label, file string) Record {
	return Record{
		DLL:         label,
		File:        file,
		OpenRet:     NotAttempted,
		NumFiles:    CountUnknown,
		NumChannels: CountUnknown,
		SampleCount: CountUnknown,
		FirstSample: SampleUnknown,
		LastSample:  SampleUnknown,
	}
}
