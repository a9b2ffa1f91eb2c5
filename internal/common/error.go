package common

import (
	"fmt"
	"strings"

	"i2cdecode/internal/dcd"
)

// Error represents the library error object.
type Error struct {
	Code    dcd.Err
	Sev     dcd.ErrSeverity
	Idx     dcd.Index
	Message string
}

func NewError(sev dcd.ErrSeverity, code dcd.Err) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
		Idx:  dcd.BadIndex,
	}
}

func NewErrorMsg(sev dcd.ErrSeverity, code dcd.Err, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     dcd.BadIndex,
		Message: msg,
	}
}

func NewErrorWithIdxMsg(sev dcd.ErrSeverity, code dcd.Err, idx dcd.Index, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     idx,
		Message: msg,
	}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Sev {
	case dcd.ErrSevError:
		sb.WriteString("ERROR:")
	case dcd.ErrSevWarn:
		sb.WriteString("WARN :")
	case dcd.ErrSevInfo:
		sb.WriteString("INFO :")
	case dcd.ErrSevDebug:
		sb.WriteString("DEBUG:")
	default:
		return "LIBRARY INTERNAL ERROR: Invalid Error Object"
	}

	sb.WriteString(fmt.Sprintf("0x%04x ", e.Code))

	if desc, ok := errorCodeDesc[e.Code]; ok {
		sb.WriteString(fmt.Sprintf("(%s) [%s]; ", desc.name, desc.msg))
	} else {
		sb.WriteString("(unknown); ")
	}

	if e.Idx != dcd.BadIndex {
		sb.WriteString(fmt.Sprintf("Idx=%d; ", e.Idx))
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// Is reports whether target is an *Error carrying the same code, so callers
// can match with errors.Is against a bare NewError(sev, code) value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// DataRespStr returns a string representation for a dcd.DatapathResp value.
func DataRespStr(resp dcd.DatapathResp) string {
	switch resp {
	case dcd.RespCont:
		return "RESP_CONT: Continue processing."
	case dcd.RespWarnCont:
		return "RESP_WARN_CONT: Continue processing -> a component logged a warning."
	case dcd.RespErrCont:
		return "RESP_ERR_CONT: Continue processing -> a component logged an error."
	case dcd.RespWait:
		return "RESP_WAIT: Pause processing"
	case dcd.RespFatalNotInit:
		return "RESP_FATAL_NOT_INIT: Processing Fatal Error :  component unintialised."
	case dcd.RespFatalInvalidOp:
		return "RESP_FATAL_INVALID_OP: Processing Fatal Error :  invalid data path operation."
	case dcd.RespFatalInvalidParam:
		return "RESP_FATAL_INVALID_PARAM: Processing Fatal Error :  invalid parameter in datapath call."
	case dcd.RespFatalInvalidData:
		return "RESP_FATAL_INVALID_DATA: Processing Fatal Error :  invalid bus event data."
	case dcd.RespFatalSysErr:
		return "RESP_FATAL_SYS_ERR: Processing Fatal Error :  internal system error."
	default:
		return "Unknown RESP type."
	}
}

type errDesc struct {
	name string
	msg  string
}

var errorCodeDesc = map[dcd.Err]errDesc{
	dcd.OK:                    {"I2CD_OK", "No Error."},
	dcd.ErrFail:               {"I2CD_ERR_FAIL", "General failure."},
	dcd.ErrNotInit:            {"I2CD_ERR_NOT_INIT", "Component not initialised."},
	dcd.ErrInvalidParamVal:    {"I2CD_ERR_INVALID_PARAM_VAL", "Invalid value parameter passed to component."},
	dcd.ErrInvalidParamType:   {"I2CD_ERR_INVALID_PARAM_TYPE", "Type mismatch on abstract interface."},
	dcd.ErrFileError:          {"I2CD_ERR_FILE_ERROR", "File access error"},
	dcd.ErrAttachTooMany:      {"I2CD_ERR_ATTACH_TOO_MANY", "Cannot attach - attach device limit reached."},
	dcd.ErrAttachCompNotFound: {"I2CD_ERR_ATTACH_COMP_NOT_FOUND", "Cannot detach - component not found."},
	dcd.ErrBadPacketSeq:       {"I2CD_ERR_BAD_PACKET_SEQ", "Bus event not valid in current decoder state"},
	dcd.ErrUnknownCmd:         {"I2CD_ERR_UNKNOWN_CMD", "Unknown bus event command"},
	dcd.ErrBadProfile:         {"I2CD_ERR_BAD_PROFILE", "Device profile is inconsistent"},
	dcd.ErrCaptureParse:       {"I2CD_ERR_CAPTURE_PARSE", "Capture file parse error"},
	dcd.ErrCaptureRead:        {"I2CD_ERR_CAPTURE_READ", "Capture reader error"},
	dcd.ErrDcdregNameRepeat:   {"I2CD_ERR_DCDREG_NAME_REPEAT", "Attempted to register a decoder with the same name as another one."},
	dcd.ErrDcdregNameUnknown:  {"I2CD_ERR_DCDREG_NAME_UNKNOWN", "Attempted to find a decoder with a name that is not known in the library."},
	dcd.ErrDcdInterfaceUnused: {"I2CD_ERR_DCD_INTERFACE_UNUSED", "Attempt to connect or use and interface not supported by this decoder."},
	dcd.ErrBusTx:              {"I2CD_ERR_BUS_TX", "Bus transaction failed"},
	dcd.ErrLast:               {"I2CD_ERR_LAST", "No error - error code end marker"},
}

// ErrorCodeDesc returns the name and description of an error code.
func ErrorCodeDesc(code dcd.Err) (name, msg string, ok bool) {
	d, ok := errorCodeDesc[code]
	return d.name, d.msg, ok
}
