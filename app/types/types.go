package types

import (
	"context"
	"strconv"
)

type Method string

const (
	Get    Method = "GET"
	Post   Method = "POST"
	Put    Method = "PUT"
	Delete Method = "DELETE"
)

// Methods lists every method the parser accepts, in declaration order.
var Methods = []Method{Get, Post, Put, Delete}

// ParseMethod maps a request-line token onto a Method. Matching is exact and
// case-sensitive.
func ParseMethod(token string) (Method, bool) {
	switch token {
	case "GET":
		return Get, true
	case "POST":
		return Post, true
	case "PUT":
		return Put, true
	case "DELETE":
		return Delete, true
	default:
		return "", false
	}
}

type Version int

const (
	HTTP10 Version = iota + 1
	HTTP11
	HTTP20
	HTTP30
)

// ParseVersion maps a request-line token onto a Version. HTTP/2.0 and
// HTTP/3.0 are recognized as tokens only.
func ParseVersion(token string) (Version, bool) {
	switch token {
	case "HTTP/1.0":
		return HTTP10, true
	case "HTTP/1.1":
		return HTTP11, true
	case "HTTP/2.0":
		return HTTP20, true
	case "HTTP/3.0":
		return HTTP30, true
	default:
		return 0, false
	}
}

func (v Version) String() string {
	switch v {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	case HTTP20:
		return "HTTP/2.0"
	case HTTP30:
		return "HTTP/3.0"
	default:
		return "HTTP/?" + strconv.Itoa(int(v))
	}
}

type Header struct {
	Name  string
	Value string
}

// Headers keeps header pairs in wire order. Duplicates are allowed.
type Headers []Header

// Get returns the value of the first header whose name equals name exactly.
func (h Headers) Get(name string) (string, bool) {
	for _, hd := range h {
		if hd.Name == name {
			return hd.Value, true
		}
	}
	return "", false
}

// Has reports whether the exact (name, value) pair is present.
func (h Headers) Has(name, value string) bool {
	for _, hd := range h {
		if hd.Name == name && hd.Value == value {
			return true
		}
	}
	return false
}

// Request is produced by request.Parse and must not be modified afterwards.
type Request struct {
	Method  Method
	Target  string
	Version Version
	Headers Headers
	Body    string
}

// Handler builds the response for a matched route. Params holds the values
// captured by the route pattern.
type Handler func(ctx context.Context, req *Request, params map[string]string) Response

// Response is built once by response.Build and serialized once. A nil Body
// means no body at all, which is distinct from an empty one.
type Response struct {
	Version Version
	Status  Status
	Headers Headers
	Body    []byte
}

func (r Response) HasBody() bool {
	return r.Body != nil
}
