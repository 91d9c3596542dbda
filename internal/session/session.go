// Package session drives one bound library through the stateful
// open/query/read/close protocol for one input file and records what the
// library did.
//
// Every step downgrades to "skipped, field stays sentinel" when its entry
// point was not resolved in binding; a run never fails outright because an
// optional capability is missing.
package session

import (
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/audlab/audparity/internal/dll"
)

// Magic is the 32-bit handshake constant passed to Aud_InitDll in the
// single-call init mode.
const Magic uint32 = 0x42754C2E

// Challenge-response constants for the three-phase init handshake the
// hosted original build requires. Recovered from the shipping host
// application.
const (
	InitXORConstant uint32 = 1114983470
	Phase3Magic     uint32 = 1230000000
	Phase3XORResult uint32 = 1826820242
)

// Options parameterize one protocol run.
type Options struct {
	// Label identifies the library in the record ("original", "rebuilt").
	Label string

	// Magic is the init handshake constant. Zero means session.Magic.
	Magic uint32

	// ChallengeInit selects the three-phase handshake instead of the
	// single init call.
	ChallengeInit bool

	// FormatCode is the format classifier passed to open, normally the
	// resolver's answer for the file extension.
	FormatCode int32
}

// Run executes the protocol against lib for filePath, in strict order:
// version query, init, open, file count, channel count, two-phase sample
// read, close. The returned record is complete and immutable.
//
// Run never fails: protocol errors are recorded verbatim in the record and
// later steps are skipped per the protocol ordering.
func Run(lib *dll.Library, filePath string, opts Options) Record {
	rec := Skipped(opts.Label, filePath)
	log := slog.With(slog.String("dll", opts.Label), slog.String("file", filePath))

	magic := opts.Magic
	if magic == 0 {
		magic = Magic
	}

	// Version queries are optional; absence means 0.0, not an error.
	if fn := lib.Funcs.GetInterfaceVersion; fn != nil {
		rec.InterfaceVersion = fn()
	}
	if fn := lib.Funcs.GetDllVersion; fn != nil {
		rec.DLLVersion = fn()
	}
	log.Debug("version query done",
		slog.Float64("interface_version", rec.InterfaceVersion),
		slog.Float64("dll_version", rec.DLLVersion))

	// Init. A zero token is a soft failure: some builds tolerate it, so
	// the protocol still attempts to open the file.
	if opts.ChallengeInit {
		token, ok := challengeInit(lib.Funcs.InitDll, log)
		rec.SessionMagic = HexToken(token)
		if !ok {
			log.Warn("challenge init incomplete, attempting open anyway")
		}
	} else {
		token := lib.Funcs.InitDll(magic)
		rec.SessionMagic = HexToken(token)
		if token == 0 {
			log.Warn("init returned zero session token, attempting open anyway")
		}
	}

	// Open. The path goes over the ABI as an absolute wide string.
	absPath := filePath
	if p, err := filepath.Abs(filePath); err == nil {
		absPath = p
	}
	widePath := dll.WideString(absPath)
	rec.OpenRet = lib.Funcs.OpenGetFile(&widePath[0], opts.FormatCode, 0)
	runtime.KeepAlive(widePath)
	log.Debug("open returned", slog.Int("open_ret", int(rec.OpenRet)),
		slog.Int("format_code", int(opts.FormatCode)))

	if rec.OpenRet != 0 {
		// Open failed: no per-file step is attempted, fields keep their
		// sentinels.
		return rec
	}

	if fn := lib.Funcs.GetNumberOfFiles; fn != nil {
		var count uint32
		if ret := fn(&count); ret == 0 {
			rec.NumFiles = int32(count)
		} else {
			log.Warn("file count query failed", slog.Int("ret", int(ret)))
		}
	}

	channels := uint32(0)
	if fn := lib.Funcs.GetNumberOfChannels; fn != nil {
		var count uint32
		if ret := fn(0, &count); ret == 0 {
			channels = count
			rec.NumChannels = int32(count)
		} else {
			log.Warn("channel count query failed", slog.Int("ret", int(ret)))
		}
	}

	if channels > 0 && lib.Funcs.GetChannelDataDoubles != nil {
		readSamples(lib.Funcs.GetChannelDataDoubles, &rec, log)
	}

	if fn := lib.Funcs.CloseGetFile; fn != nil {
		if ret := fn(); ret != 0 {
			log.Warn("close returned nonzero", slog.Int("ret", int(ret)))
		}
	}

	return rec
}

// readSamples runs the two-phase sizing protocol against file 0, channel 0:
// a nil-buffer call reports the available count, then a buffer of exactly
// that many doubles is filled. The library may lower the count on the
// second call, never raise it.
func readSamples(read func(uint32, uint32, *float64, *uint32) int32, rec *Record, log *slog.Logger) {
	var available uint32
	if ret := read(0, 0, nil, &available); ret != 0 {
		log.Warn("sample sizing call failed", slog.Int("ret", int(ret)))
		return
	}
	if available == 0 {
		log.Debug("library reports zero samples")
		return
	}
	rec.SampleCount = int32(available)

	buf := make([]float64, available)
	filled := available
	if ret := read(0, 0, &buf[0], &filled); ret != 0 {
		log.Warn("sample fill call failed", slog.Int("ret", int(ret)))
		return
	}
	if filled == 0 || filled > available {
		log.Warn("sample fill reported implausible count",
			slog.Uint64("filled", uint64(filled)),
			slog.Uint64("available", uint64(available)))
		return
	}
	rec.FirstSample = buf[0]
	rec.LastSample = buf[filled-1]
}

// challengeInit performs the three-phase handshake. The returned token is
// the phase-1 challenge; ok reports whether all phases verified.
func challengeInit(initDll func(uint32) uint32, log *slog.Logger) (uint32, bool) {
	challenge := initDll(0)

	response := challenge ^ InitXORConstant
	if ret := initDll(response); ret != 0 {
		log.Warn("challenge init phase 2 rejected",
			slog.Uint64("response", uint64(response)),
			slog.Uint64("ret", uint64(ret)))
		return challenge, false
	}

	expected := Phase3Magic ^ Phase3XORResult
	if ret := initDll(Phase3Magic); ret != expected {
		log.Warn("challenge init phase 3 mismatch",
			slog.Uint64("expected", uint64(expected)),
			slog.Uint64("ret", uint64(ret)))
		return challenge, false
	}

	return challenge, true
}
