package ferrors

// Message patterns for every error kind named in the error handling design.
// Each constant is passed to Errorf() as the pattern argument, never
// constructed by hand, so Is()/Has() callers can match on these constants.
const (
	// action / dispatch boundary — dropped, not fatal
	ActionInvalid     = "action invalid: %v"
	UnsupportedAction = "unsupported action: %v"

	// store — fatal, indicates caller misuse
	StoreFault       = "store fault: %v"
	TransientActive  = "store fault: transient store already active"
	TransientInvalid = "store fault: no active transient store"

	// patch composition — fatal, indicates a bug in merge rules
	PatchConflict = "patch conflict: %v"

	// topology / path lookups — fatal outside the action boundary
	NotFound         = "not found: %v"
	FieldNotFound    = "not found: field (%v)"
	ComponentMissing = "not found: component (%v)"

	// devices — surfaced, device excluded from graph
	DeviceError      = "device error: %v"
	DeviceInitFailed = "device error: init failed (%v)"
	DeviceNotStarted = "device error: not started (%v)"

	// faust compile — surfaced to the faust log slot
	CompileError      = "compile error: %v"
	CompileNoResult   = "compile error: compiler returned no result"
	CompileFactoryNil = "compile error: factory creation failed"

	// project I/O — surfaced to the user, history untouched
	FileIOError     = "file i/o error: %v"
	ProjectReadErr  = "file i/o error: cannot read project (%v)"
	ProjectWriteErr = "file i/o error: cannot write project (%v)"

	// preferences
	Prefs         = "prefs: %v"
	PrefsNoFile   = "prefs: no file (%s)"
	PrefsNotValid = "prefs: not a valid prefs file (%s)"

	// text buffer / syntax
	BufferRangeError = "buffer error: range out of bounds (%v)"
	ParseError       = "parse error: %v"
)
