package router

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xavierroma/rakis-http/app/response"
	"github.com/xavierroma/rakis-http/app/types"
)

// FileStore is what the /files routes need from storage. Names are passed
// through exactly as they appear in the target; the store decides whether a
// name is acceptable.
type FileStore interface {
	Read(name string) ([]byte, error)
	Write(name string, content []byte) error
}

// NewServer returns a router with the server's fixed route table. All
// patterns are disjoint, so registration order does not affect matching.
func NewServer(store FileStore) Router {
	files := filesHandler{store: store}
	return New().
		RegisterAny("/echo/*msg", echo).
		Register(types.Post, "/files/*name", files.write).
		Register(types.Get, "/files/*name", files.read).
		Register(types.Put, "/files/*name", files.read).
		Register(types.Delete, "/files/*name", files.read).
		RegisterAny("/hello", hello).
		RegisterAny("/user-agent", userAgent).
		RegisterAny("/", root)
}

func echo(ctx context.Context, req *types.Request, params map[string]string) types.Response {
	msg := params["msg"]
	if msg == "" {
		return response.Build(req, types.StatusNotFound, "", nil)
	}
	return response.Build(req, types.StatusOK, response.ContentTypeText, []byte(msg))
}

type filesHandler struct {
	store FileStore
}

func (f filesHandler) write(ctx context.Context, req *types.Request, params map[string]string) types.Response {
	name := params["name"]
	if name == "" {
		return response.Build(req, types.StatusNotFound, "", nil)
	}
	if err := f.store.Write(name, []byte(req.Body)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("file", name).Msg("file write failed")
		return response.Build(req, types.StatusInternalServerError, "", nil)
	}
	return response.Build(req, types.StatusCreated, "", nil)
}

func (f filesHandler) read(ctx context.Context, req *types.Request, params map[string]string) types.Response {
	name := params["name"]
	if name == "" {
		return response.Build(req, types.StatusNotFound, "", nil)
	}
	content, err := f.store.Read(name)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("file", name).Msg("file read failed")
		return response.Build(req, types.StatusNotFound, "", nil)
	}
	if content == nil {
		content = []byte{}
	}
	return response.Build(req, types.StatusOK, response.ContentTypeBinary, content)
}

func hello(ctx context.Context, req *types.Request, params map[string]string) types.Response {
	return response.Build(req, types.StatusOK, response.ContentTypeText, []byte("Hello World!"))
}

// userAgent reflects the first User-Agent header. Without one the request
// is answered with 400.
func userAgent(ctx context.Context, req *types.Request, params map[string]string) types.Response {
	ua, ok := req.Headers.Get("User-Agent")
	if !ok {
		return response.Build(req, types.StatusBadRequest, "", nil)
	}
	return response.Build(req, types.StatusOK, response.ContentTypeText, []byte(ua))
}

func root(ctx context.Context, req *types.Request, params map[string]string) types.Response {
	return response.Build(req, types.StatusOK, "", nil)
}
