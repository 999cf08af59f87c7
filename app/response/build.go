package response

import (
	"bytes"
	"compress/gzip"
	"strconv"
	"strings"

	"github.com/xavierroma/rakis-http/app/types"
)

const (
	ContentTypeText   = "text/plain"
	ContentTypeBinary = "application/octet-stream"
)

// Build assembles the response to req. A nil body produces a response with
// no headers and no body. Otherwise headers are appended in a fixed order:
// Content-Encoding (when negotiated), Connection (when the client sent
// "Connection: close"), Content-Type and Content-Length, the latter always
// matching the bytes that go on the wire.
//
// contentType must be set whenever body is non-nil.
func Build(req *types.Request, status types.Status, contentType string, body []byte) types.Response {
	res := types.Response{
		Version: req.Version,
		Status:  status,
	}
	if body == nil {
		return res
	}
	if contentType == "" {
		panic("response: body without content type")
	}

	raw := body
	var headers types.Headers

	if enc, ok := Negotiate(req.Headers); ok {
		encoded, applied := encode(enc, raw)
		if applied {
			raw = encoded
			headers = append(headers, types.Header{Name: "Content-Encoding", Value: enc})
		}
	}

	if req.Headers.Has("Connection", "close") {
		headers = append(headers, types.Header{Name: "Connection", Value: "close"})
	}

	headers = append(headers,
		types.Header{Name: "Content-Type", Value: contentType},
		types.Header{Name: "Content-Length", Value: strconv.Itoa(len(raw))},
	)

	res.Headers = headers
	res.Body = raw
	return res
}

// Negotiate picks the content coding for a response. Only the first
// Accept-Encoding header is consulted; its comma separated tokens are
// scanned in the order the client sent them and the first advertised one
// wins. Quality values are not interpreted.
func Negotiate(h types.Headers) (string, bool) {
	accept, ok := h.Get("Accept-Encoding")
	if !ok {
		return "", false
	}
	for _, token := range strings.Split(accept, ",") {
		token = strings.TrimSpace(token)
		for _, enc := range types.Encodings {
			if token == enc {
				return enc, true
			}
		}
	}
	return "", false
}

func encode(enc string, body []byte) ([]byte, bool) {
	switch enc {
	case "gzip":
		out, err := gzipBytes(body)
		if err != nil {
			return body, false
		}
		return out, true
	default:
		return body, false
	}
}

func gzipBytes(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(body); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
