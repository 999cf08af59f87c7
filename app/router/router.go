package router

import (
	"context"

	"github.com/xavierroma/rakis-http/app/types"
)

type Router interface {
	Register(method types.Method, path string, handler types.Handler) Router

	// RegisterAny registers handler for every supported method.
	RegisterAny(path string, handler types.Handler) Router

	HandleRequest(ctx context.Context, req *types.Request) types.Response
}

func New() Router {
	return newTreeRouter()
}
