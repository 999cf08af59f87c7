package response

import (
	"bytes"
	"io"
	"strconv"

	"github.com/xavierroma/rakis-http/app/types"
)

var crlf = []byte("\r\n")

// Serialize renders r exactly as it goes on the wire: status line, headers
// in stored order, a blank line and the raw body with no trailing CRLF.
func Serialize(r types.Response) []byte {
	var buf bytes.Buffer
	buf.Grow(64 + len(r.Body))

	buf.WriteString(r.Version.String())
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(int(r.Status)))
	buf.WriteByte(' ')
	buf.WriteString(r.Status.Reason())
	buf.Write(crlf)

	for _, h := range r.Headers {
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.WriteString(h.Value)
		buf.Write(crlf)
	}
	buf.Write(crlf)

	if r.HasBody() {
		buf.Write(r.Body)
	}
	return buf.Bytes()
}

// WriteTo serializes r and writes it to w in a single call.
func WriteTo(w io.Writer, r types.Response) (int, error) {
	return w.Write(Serialize(r))
}
