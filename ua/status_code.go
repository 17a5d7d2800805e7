// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "fmt"

// StatusCode is the result of a service or operation.
// The top two bits carry the severity, the next 14 bits the sub code.
type StatusCode uint32

// Severity masks.
const (
	SeverityGood      StatusCode = 0x00000000
	SeverityUncertain StatusCode = 0x40000000
	SeverityBad       StatusCode = 0x80000000
	SeverityMask      StatusCode = 0xC0000000
)

const (
	// Good - The operation completed successfully.
	Good StatusCode = 0x00000000
	// Uncertain - The operation completed however its outputs may not be usable.
	Uncertain StatusCode = 0x40000000
	// Bad - The operation failed.
	Bad StatusCode = 0x80000000
	// BadUnexpectedError - An unexpected error occurred.
	BadUnexpectedError StatusCode = 0x80010000
	// BadInternalError - An internal error occurred as a result of a programming or configuration error.
	BadInternalError StatusCode = 0x80020000
	// BadOutOfMemory - Not enough memory to complete the operation.
	BadOutOfMemory StatusCode = 0x80030000
	// BadResourceUnavailable - An operating system resource is not available.
	BadResourceUnavailable StatusCode = 0x80040000
	// BadEncodingError - Encoding halted because of invalid data in the objects being serialized.
	BadEncodingError StatusCode = 0x80060000
	// BadDecodingError - Decoding halted because of invalid data in the stream.
	BadDecodingError StatusCode = 0x80070000
	// BadEncodingLimitsExceeded - The message encoding/decoding limits imposed by the stack have been exceeded.
	BadEncodingLimitsExceeded StatusCode = 0x80080000
	// BadDataTypeIDUnknown - The extension object cannot be (de)serialized because the data type id is not recognized.
	BadDataTypeIDUnknown StatusCode = 0x80110000
	// BadNodeIDInvalid - The syntax of the node id is not valid.
	BadNodeIDInvalid StatusCode = 0x80330000
	// BadNodeIDUnknown - The node id refers to a node that does not exist in the server address space.
	BadNodeIDUnknown StatusCode = 0x80340000
	// BadIndexRangeInvalid - The syntax of the index range parameter is invalid.
	BadIndexRangeInvalid StatusCode = 0x80360000
	// BadIndexRangeNoData - No data exists within the range of indexes specified.
	BadIndexRangeNoData StatusCode = 0x80370000
	// BadDataEncodingInvalid - The data encoding is invalid.
	BadDataEncodingInvalid StatusCode = 0x80380000
	// BadDataEncodingUnsupported - The server does not support the requested data encoding for the node.
	BadDataEncodingUnsupported StatusCode = 0x80390000
	// BadOutOfRange - The value was out of range.
	BadOutOfRange StatusCode = 0x803C0000
	// BadNotSupported - The requested operation is not supported.
	BadNotSupported StatusCode = 0x803D0000
	// BadNotFound - A requested item was not found or a search operation ended without success.
	BadNotFound StatusCode = 0x803E0000
	// BadNotImplemented - Requested operation is not implemented.
	BadNotImplemented StatusCode = 0x80400000
	// BadTypeMismatch - The value supplied for the attribute is not of the same type as the attribute's value.
	BadTypeMismatch StatusCode = 0x80740000
	// BadInvalidArgument - One or more arguments are invalid.
	BadInvalidArgument StatusCode = 0x80AB0000
	// BadDataTypeIDInvalid - The data type id does not refer to a valid data type.
	BadDataTypeIDInvalid StatusCode = 0x80DB0000
)

var statusCodeNames = map[StatusCode]struct {
	name        string
	description string
}{
	Good:                       {"Good", "The operation completed successfully."},
	Uncertain:                  {"Uncertain", "The operation completed however its outputs may not be usable."},
	Bad:                        {"Bad", "The operation failed."},
	BadUnexpectedError:         {"BadUnexpectedError", "An unexpected error occurred."},
	BadInternalError:           {"BadInternalError", "An internal error occurred as a result of a programming or configuration error."},
	BadOutOfMemory:             {"BadOutOfMemory", "Not enough memory to complete the operation."},
	BadResourceUnavailable:     {"BadResourceUnavailable", "An operating system resource is not available."},
	BadEncodingError:           {"BadEncodingError", "Encoding halted because of invalid data in the objects being serialized."},
	BadDecodingError:           {"BadDecodingError", "Decoding halted because of invalid data in the stream."},
	BadEncodingLimitsExceeded:  {"BadEncodingLimitsExceeded", "The message encoding/decoding limits imposed by the stack have been exceeded."},
	BadDataTypeIDUnknown:       {"BadDataTypeIdUnknown", "The extension object cannot be (de)serialized because the data type id is not recognized."},
	BadNodeIDInvalid:           {"BadNodeIdInvalid", "The syntax of the node id is not valid."},
	BadNodeIDUnknown:           {"BadNodeIdUnknown", "The node id refers to a node that does not exist in the server address space."},
	BadIndexRangeInvalid:       {"BadIndexRangeInvalid", "The syntax of the index range parameter is invalid."},
	BadIndexRangeNoData:        {"BadIndexRangeNoData", "No data exists within the range of indexes specified."},
	BadDataEncodingInvalid:     {"BadDataEncodingInvalid", "The data encoding is invalid."},
	BadDataEncodingUnsupported: {"BadDataEncodingUnsupported", "The server does not support the requested data encoding for the node."},
	BadOutOfRange:              {"BadOutOfRange", "The value was out of range."},
	BadNotSupported:            {"BadNotSupported", "The requested operation is not supported."},
	BadNotFound:                {"BadNotFound", "A requested item was not found or a search operation ended without success."},
	BadNotImplemented:          {"BadNotImplemented", "Requested operation is not implemented."},
	BadTypeMismatch:            {"BadTypeMismatch", "The value supplied for the attribute is not of the same type as the attribute's value."},
	BadInvalidArgument:         {"BadInvalidArgument", "One or more arguments are invalid."},
	BadDataTypeIDInvalid:       {"BadDataTypeIdInvalid", "The data type id does not refer to a valid data type."},
}

// Error returns the StatusCode message.
func (c StatusCode) Error() string {
	if n, ok := statusCodeNames[c&0xFFFF0000]; ok {
		return n.description
	}
	return "An unknown error occurred."
}

// Name returns the symbolic name of the StatusCode, e.g. "BadDecodingError".
func (c StatusCode) Name() string {
	if n, ok := statusCodeNames[c&0xFFFF0000]; ok {
		return n.name
	}
	return fmt.Sprintf("0x%08X", uint32(c))
}

// String returns the symbolic name.
func (c StatusCode) String() string {
	return c.Name()
}

// IsGood returns true if the StatusCode has severity Good.
func (c StatusCode) IsGood() bool {
	return (uint32(c) >> 30) == 0x00
}

// IsUncertain returns true if the StatusCode has severity Uncertain.
func (c StatusCode) IsUncertain() bool {
	return (uint32(c) >> 30) == 0x01
}

// IsBad returns true if the StatusCode has severity Bad.
func (c StatusCode) IsBad() bool {
	return (uint32(c) >> 30) >= 0x02
}

// Severity returns the severity bits of the StatusCode.
func (c StatusCode) Severity() StatusCode {
	return c & SeverityMask
}

// EqualTop compares the top 16 bits of two StatusCodes. The lower bits
// are reserved for info flags and are ignored.
func (c StatusCode) EqualTop(other StatusCode) bool {
	return (c & 0xFFFF0000) == (other & 0xFFFF0000)
}

// CompareSeverity orders two StatusCodes by the rank of their severity.
// Good orders before Uncertain which orders before Bad.
func CompareSeverity(a, b StatusCode) Order {
	ra, rb := uint32(a)>>30, uint32(b)>>30
	switch {
	case ra == rb:
		return OrderEq
	case ra < rb:
		return OrderLess
	default:
		return OrderMore
	}
}

// toStatusCode maps an arbitrary error into the status space.
func toStatusCode(err error, fallback StatusCode) StatusCode {
	if err == nil {
		return Good
	}
	if sc, ok := err.(StatusCode); ok {
		return sc
	}
	return fallback
}
