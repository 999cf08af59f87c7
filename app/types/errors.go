package types

import "fmt"

// ParseError is the kind of failure reported by request.Parse. Values are
// comparable, so callers can match them with errors.Is.
type ParseError int

const (
	InvalidRequestLine ParseError = iota + 1
	InvalidMethod
	InvalidVersion
	InvalidHeader
)

func (e ParseError) Error() string {
	switch e {
	case InvalidRequestLine:
		return "invalid request line"
	case InvalidMethod:
		return "invalid method"
	case InvalidVersion:
		return "invalid version"
	case InvalidHeader:
		return "invalid header"
	default:
		return fmt.Sprintf("unknown parse error: %d", int(e))
	}
}
