package request

import (
	"strings"

	"github.com/xavierroma/rakis-http/app/types"
)

const (
	crlf            = "\r\n"
	headerSeparator = ": "
)

// Parse turns one complete request buffer into a Request.
//
// The buffer is split on CRLF. The first block is the request line; every
// later block is either a "Name: value" header, or a body segment when it
// contains no separator at all. Blocks that split into more than two parts
// are dropped. A request without any header is rejected with
// types.InvalidHeader, even when it is otherwise well formed.
func Parse(raw string) (*types.Request, error) {
	if raw == "" {
		return nil, types.InvalidRequestLine
	}
	blocks := strings.Split(raw, crlf)

	requestLine := strings.Fields(blocks[0])
	if len(requestLine) != 3 {
		return nil, types.InvalidRequestLine
	}

	method, ok := types.ParseMethod(requestLine[0])
	if !ok {
		return nil, types.InvalidMethod
	}

	target := requestLine[1]
	if target == "" {
		return nil, types.InvalidRequestLine
	}

	version, ok := types.ParseVersion(requestLine[2])
	if !ok {
		return nil, types.InvalidVersion
	}

	var (
		headers types.Headers
		body    string
	)
	for _, block := range blocks[1:] {
		parts := strings.Split(block, headerSeparator)
		switch {
		case len(parts) == 2:
			headers = append(headers, types.Header{Name: parts[0], Value: parts[1]})
		case len(parts) == 1 && parts[0] != "":
			body = block
		}
	}

	if len(headers) == 0 {
		return nil, types.InvalidHeader
	}

	return &types.Request{
		Method:  method,
		Target:  target,
		Version: version,
		Headers: headers,
		Body:    body,
	}, nil
}
