package router

import (
	"context"

	"github.com/xavierroma/rakis-http/app/response"
	"github.com/xavierroma/rakis-http/app/segmenttree"
	"github.com/xavierroma/rakis-http/app/types"
)

type treeRouter struct {
	tree *segmenttree.SegmentTree
}

func newTreeRouter() *treeRouter {
	return &treeRouter{
		tree: segmenttree.NewSegmentTree(),
	}
}

func (r *treeRouter) Register(method types.Method, path string, handler types.Handler) Router {
	r.tree.Insert(method, path, handler)
	return r
}

func (r *treeRouter) RegisterAny(path string, handler types.Handler) Router {
	for _, m := range types.Methods {
		r.tree.Insert(m, path, handler)
	}
	return r
}

func (r *treeRouter) HandleRequest(ctx context.Context, req *types.Request) types.Response {
	handler, params, ok := r.tree.Search(req.Method, req.Target)
	if !ok {
		return response.Build(req, types.StatusNotFound, "", nil)
	}
	return handler(ctx, req, params)
}
