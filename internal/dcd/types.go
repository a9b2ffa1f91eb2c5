package dcd

// Sample positions and spans

// Index is a sample position in the capture. Values are opaque to the
// decoders and only ever copied from input to output.
type Index uint64

// BadIndex is an invalid sample position value
const BadIndex Index = ^Index(0)

// Span is the start/end sample range covered by one bus event or annotation.
type Span struct {
	Start Index
	End   Index
}

// MakeSpan builds a span from start and end sample positions.
func MakeSpan(start, end Index) Span {
	return Span{Start: start, End: end}
}

// General Library Return and Error Codes

// Err represents library error return type
type Err uint32

const (
	OK                    Err = 0
	ErrFail               Err = 1
	ErrNotInit            Err = 2
	ErrInvalidParamVal    Err = 3
	ErrInvalidParamType   Err = 4
	ErrFileError          Err = 5
	ErrAttachTooMany      Err = 6
	ErrAttachCompNotFound Err = 7
	ErrBadPacketSeq       Err = 8
	ErrUnknownCmd         Err = 9
	ErrBadProfile         Err = 10
	ErrCaptureParse       Err = 11
	ErrCaptureRead        Err = 12
	ErrDcdregNameRepeat   Err = 13
	ErrDcdregNameUnknown  Err = 14
	ErrDcdInterfaceUnused Err = 15
	ErrBusTx              Err = 16
	ErrLast               Err = 17
)

// ErrSeverity used to indicate the severity of an error or logger verbosity
type ErrSeverity uint32

const (
	ErrSevNone  ErrSeverity = 0
	ErrSevError ErrSeverity = 1
	ErrSevWarn  ErrSeverity = 2
	ErrSevInfo  ErrSeverity = 3
	ErrSevDebug ErrSeverity = 4
)

// Decode Datapath

// DatapathOp represents datapath operations.
type DatapathOp uint32

const (
	OpData  DatapathOp = 0
	OpEOT   DatapathOp = 1
	OpFlush DatapathOp = 2
	OpReset DatapathOp = 3
)

func (op DatapathOp) String() string {
	switch op {
	case OpData:
		return "DATA"
	case OpEOT:
		return "EOT"
	case OpFlush:
		return "FLUSH"
	case OpReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// DatapathResp represents datapath responses.
type DatapathResp uint32

const (
	RespCont              DatapathResp = 0
	RespWarnCont          DatapathResp = 1
	RespErrCont           DatapathResp = 2
	RespWait              DatapathResp = 3
	RespFatalNotInit      DatapathResp = 4
	RespFatalInvalidOp    DatapathResp = 5
	RespFatalInvalidParam DatapathResp = 6
	RespFatalInvalidData  DatapathResp = 7
	RespFatalSysErr       DatapathResp = 8
)

func DataRespIsFatal(x DatapathResp) bool { return x >= RespFatalNotInit }
func DataRespIsCont(x DatapathResp) bool  { return x < RespWait }
func DataRespIsWait(x DatapathResp) bool  { return x == RespWait }

// WorstResp returns the more severe of two datapath responses.
func WorstResp(a, b DatapathResp) DatapathResp {
	if b > a {
		return b
	}
	return a
}

// Decode Component Name Prefixes

const (
	CmpnamePrefixPktdec  = "DCD"
	CmpnamePrefixTap     = "TAP"
	CmpnamePrefixPrinter = "PRN"
)

// Component operation mode flags.

const (
	// OpflgStickyErrorState makes an unexpected event during a register burst
	// park the decoder in the error state until the next STOP, instead of
	// returning to idle immediately.
	OpflgStickyErrorState = 0x00000100

	OpflgPktdecCommon = OpflgStickyErrorState

	OpflgCompModeMask = 0xFFFF0000
)

// DecodeStats holds per decoder counters.
type DecodeStats struct {
	EventsIn     uint64 // events seen on the data path
	Passthrough  uint64 // events forwarded on the passthrough output
	Annotations  uint64 // annotations emitted, ignored-chip ones included
	Transactions uint64 // START conditions seen while idle
	Identified   uint64 // address phases matched to this chip
	Ignored      uint64 // address phases for other chips
	RegAccesses  uint64 // register reads and writes decoded
	ProtocolErrs uint64 // events that did not fit the current state
}
