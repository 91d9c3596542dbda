// Package dll loads one build of the measurement-file library and resolves
// its Aud_* entry points into typed Go function values.
//
// Resolution policy: Aud_InitDll and Aud_OpenGetFile are mandatory (binding
// fails without them), everything else is optional. An optional entry point
// that is absent stays nil and the session driver skips the corresponding
// protocol step.
package dll

import (
	"os"
	"path/filepath"

	"github.com/ebitengine/purego"

	apperrors "github.com/audlab/audparity/internal/errors"
)

// Entry point names exported by the target library.
const (
	SymGetInterfaceVersion   = "Aud_GetInterfaceVersion"
	SymGetDllVersion         = "Aud_GetDllVersion"
	SymInitDll               = "Aud_InitDll"
	SymOpenGetFile           = "Aud_OpenGetFile"
	SymGetNumberOfFiles      = "Aud_GetNumberOfFiles"
	SymGetNumberOfChannels   = "Aud_GetNumberOfChannels"
	SymGetChannelDataDoubles = "Aud_GetChannelDataDoubles"
	SymCloseGetFile          = "Aud_CloseGetFile"
)

// Functions holds the resolved entry points. A nil field means the library
// does not export that entry point; callers must check before calling.
type Functions struct {
	// GetInterfaceVersion returns the API contract version. Optional.
	GetInterfaceVersion func() float64

	// GetDllVersion returns the implementation version. Optional.
	GetDllVersion func() float64

	// InitDll performs the protocol handshake and returns the session
	// token. A zero token signals the session may be unusable. Mandatory.
	InitDll func(magic uint32) uint32

	// OpenGetFile opens a measurement file: NUL-terminated UTF-16 path,
	// format code, reserved extra parameter (0). Returns 0 on success.
	// Mandatory.
	OpenGetFile func(path *uint16, formatCode int32, extra int32) int32

	// GetNumberOfFiles reports how many logical files the open call
	// exposed. Optional.
	GetNumberOfFiles func(outCount *uint32) int32

	// GetNumberOfChannels reports the channel count of one logical file.
	// Optional.
	GetNumberOfChannels func(fileIdx uint32, outCount *uint32) int32

	// GetChannelDataDoubles reads samples with the two-phase sizing
	// convention: nil buffer reports the available count, a real buffer is
	// filled and the count may be adjusted downward. Optional.
	GetChannelDataDoubles func(fileIdx, channelIdx uint32, buffer *float64, inOutCount *uint32) int32

	// CloseGetFile releases the active per-file session state. Optional.
	CloseGetFile func() int32
}

// Library owns one loaded library image and its resolved entry points.
// It is exclusively owned by a single session run and must be closed on
// every exit path.
type Library struct {
	Path   string
	Funcs  Functions
	handle uintptr
	closed bool
}

// Bind loads the library at path and resolves its entry points.
//
// The process working directory is switched to the library's directory for
// the duration of the load so that co-located support libraries resolve,
// and restored before Bind returns regardless of outcome.
//
// Errors carry apperrors.ErrCodeLoadFailed when the image cannot be loaded
// and apperrors.ErrCodeEntryPointMissing when a mandatory entry point is
// absent. In the latter case the image has already been unloaded.
func Bind(path string) (*Library, error) {
	var handle uintptr
	err := inDirOf(path, func() error {
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return apperrors.LoadFailed(path, err)
		}
		handle = h
		return nil
	})
	if err != nil {
		return nil, err
	}

	lib := &Library{Path: path, handle: handle}

	// Mandatory entry points first: no point resolving the rest of the
	// surface if the protocol cannot even start.
	if !register(&lib.Funcs.InitDll, handle, SymInitDll) {
		_ = lib.Close()
		return nil, apperrors.EntryPointMissing(path, SymInitDll)
	}
	if !register(&lib.Funcs.OpenGetFile, handle, SymOpenGetFile) {
		_ = lib.Close()
		return nil, apperrors.EntryPointMissing(path, SymOpenGetFile)
	}

	register(&lib.Funcs.GetInterfaceVersion, handle, SymGetInterfaceVersion)
	register(&lib.Funcs.GetDllVersion, handle, SymGetDllVersion)
	register(&lib.Funcs.GetNumberOfFiles, handle, SymGetNumberOfFiles)
	register(&lib.Funcs.GetNumberOfChannels, handle, SymGetNumberOfChannels)
	register(&lib.Funcs.GetChannelDataDoubles, handle, SymGetChannelDataDoubles)
	register(&lib.Funcs.CloseGetFile, handle, SymCloseGetFile)

	return lib, nil
}

// Close unloads the library. Safe to call more than once; only the first
// call releases the OS handle.
func (l *Library) Close() error {
	if l == nil || l.closed || l.handle == 0 {
		return nil
	}
	l.closed = true
	if err := purego.Dlclose(l.handle); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err)
	}
	return nil
}

// register resolves name and binds it to the typed function pointed to by
// fptr. Returns false when the symbol is absent; absence is a first-class
// outcome, not an error.
func register(fptr any, handle uintptr, name string) bool {
	addr, err := purego.Dlsym(handle, name)
	if err != nil || addr == 0 {
		return false
	}
	purego.RegisterFunc(fptr, addr)
	return true
}

// inDirOf runs fn with the working directory set to the parent of path,
// restoring the previous directory on every exit path. The directory switch
// is the only process-global state this package touches.
func inDirOf(path string, fn func() error) error {
	dir := filepath.Dir(path)
	prev, err := os.Getwd()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err)
	}
	if err := os.Chdir(dir); err != nil {
		// The directory may not exist; let the load itself report the
		// failure from wherever we are.
		return fn()
	}
	defer func() { _ = os.Chdir(prev) }()
	return fn()
}
