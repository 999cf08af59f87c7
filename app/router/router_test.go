package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierroma/rakis-http/app/types"
)

type memStore struct {
	files    map[string][]byte
	failW    bool
	lastRead string
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Read(name string) ([]byte, error) {
	m.lastRead = name
	c, ok := m.files[name]
	if !ok {
		return nil, errors.New("missing")
	}
	return c, nil
}

func (m *memStore) Write(name string, content []byte) error {
	if m.failW {
		return errors.New("disk full")
	}
	m.files[name] = content
	return nil
}

func request(method types.Method, target string, body string, headers ...types.Header) *types.Request {
	if len(headers) == 0 {
		headers = types.Headers{{Name: "Host", Value: "localhost"}}
	}
	return &types.Request{
		Method:  method,
		Target:  target,
		Version: types.HTTP11,
		Headers: headers,
		Body:    body,
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name        string
		req         *types.Request
		wantStatus  types.Status
		wantBody    string
		wantNoBody  bool
		contentType string
	}{
		{
			name:        "Echo single segment",
			req:         request(types.Get, "/echo/abc", ""),
			wantStatus:  types.StatusOK,
			wantBody:    "abc",
			contentType: "text/plain",
		},
		{
			name:        "Echo rejoins segments",
			req:         request(types.Get, "/echo/foo/bar", ""),
			wantStatus:  types.StatusOK,
			wantBody:    "foo/bar",
			contentType: "text/plain",
		},
		{
			name:        "Echo ignores the method",
			req:         request(types.Delete, "/echo/x", ""),
			wantStatus:  types.StatusOK,
			wantBody:    "x",
			contentType: "text/plain",
		},
		{
			name:       "Echo with nothing to echo",
			req:        request(types.Get, "/echo/", ""),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:       "Echo without trailing slash",
			req:        request(types.Get, "/echo", ""),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:        "Hello",
			req:         request(types.Get, "/hello", ""),
			wantStatus:  types.StatusOK,
			wantBody:    "Hello World!",
			contentType: "text/plain",
		},
		{
			name:        "User agent",
			req:         request(types.Get, "/user-agent", "", types.Header{Name: "User-Agent", Value: "foobar/1.2.3"}, types.Header{Name: "User-Agent", Value: "second"}),
			wantStatus:  types.StatusOK,
			wantBody:    "foobar/1.2.3",
			contentType: "text/plain",
		},
		{
			name:       "User agent missing",
			req:        request(types.Get, "/user-agent", ""),
			wantStatus: types.StatusBadRequest,
			wantNoBody: true,
		},
		{
			name:       "Root",
			req:        request(types.Get, "/", ""),
			wantStatus: types.StatusOK,
			wantNoBody: true,
		},
		{
			name:       "Unknown path",
			req:        request(types.Get, "/nope", ""),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:       "Hello with trailing slash",
			req:        request(types.Get, "/hello/", ""),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:       "Target without leading slash",
			req:        request(types.Get, "hello", ""),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:       "Files with empty name",
			req:        request(types.Get, "/files/", ""),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
		{
			name:       "Files POST with empty name",
			req:        request(types.Post, "/files/", "content"),
			wantStatus: types.StatusNotFound,
			wantNoBody: true,
		},
	}

	r := NewServer(newMemStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.HandleRequest(context.Background(), tt.req)

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.req.Version, res.Version)
			if tt.wantNoBody {
				assert.False(t, res.HasBody())
				assert.Empty(t, res.Headers)
				return
			}
			assert.Equal(t, tt.wantBody, string(res.Body))
			ct, _ := res.Headers.Get("Content-Type")
			assert.Equal(t, tt.contentType, ct)
		})
	}
}

func TestFilesRoundTrip(t *testing.T) {
	store := newMemStore()
	r := NewServer(store)
	ctx := context.Background()

	res := r.HandleRequest(ctx, request(types.Post, "/files/dir/a.txt", "payload"))
	assert.Equal(t, types.StatusCreated, res.Status)
	assert.False(t, res.HasBody())
	assert.Equal(t, []byte("payload"), store.files["dir/a.txt"])

	for _, m := range []types.Method{types.Get, types.Put, types.Delete} {
		res = r.HandleRequest(ctx, request(m, "/files/dir/a.txt", ""))
		assert.Equal(t, types.StatusOK, res.Status, m)
		assert.Equal(t, "payload", string(res.Body), m)
		ct, _ := res.Headers.Get("Content-Type")
		assert.Equal(t, "application/octet-stream", ct)
	}
}

func TestFilesEmptyFileHasBody(t *testing.T) {
	store := newMemStore()
	store.files["empty"] = nil
	r := NewServer(store)

	res := r.HandleRequest(context.Background(), request(types.Get, "/files/empty", ""))
	require.Equal(t, types.StatusOK, res.Status)
	assert.True(t, res.HasBody())
	cl, _ := res.Headers.Get("Content-Length")
	assert.Equal(t, "0", cl)
}

func TestFilesPassesRawIdentifier(t *testing.T) {
	store := newMemStore()
	r := NewServer(store)

	res := r.HandleRequest(context.Background(), request(types.Get, "/files/../etc//passwd", ""))
	assert.Equal(t, types.StatusNotFound, res.Status)
	assert.Equal(t, "../etc//passwd", store.lastRead)
}

func TestFilesReadMiss(t *testing.T) {
	r := NewServer(newMemStore())

	res := r.HandleRequest(context.Background(), request(types.Get, "/files/missing", ""))
	assert.Equal(t, types.StatusNotFound, res.Status)
	assert.False(t, res.HasBody())
}

func TestFilesWriteFailure(t *testing.T) {
	store := newMemStore()
	store.failW = true
	r := NewServer(store)

	res := r.HandleRequest(context.Background(), request(types.Post, "/files/a", "x"))
	assert.Equal(t, types.StatusInternalServerError, res.Status)
	assert.False(t, res.HasBody())
}

func TestConnectionCloseEchoed(t *testing.T) {
	r := NewServer(newMemStore())
	req := request(types.Get, "/echo/hi", "",
		types.Header{Name: "Connection", Value: "close"},
		types.Header{Name: "Accept-Encoding", Value: "gzip"},
	)

	res := r.HandleRequest(context.Background(), req)
	assert.True(t, res.Headers.Has("Connection", "close"))
	enc, _ := res.Headers.Get("Content-Encoding")
	assert.Equal(t, "gzip", enc)
}

func TestRegisterCustomRoute(t *testing.T) {
	r := New().Register(types.Put, "/items/:id", func(ctx context.Context, req *types.Request, params map[string]string) types.Response {
		return types.Response{Version: req.Version, Status: types.StatusCreated, Body: []byte(params["id"])}
	})

	res := r.HandleRequest(context.Background(), request(types.Put, "/items/42", ""))
	assert.Equal(t, types.StatusCreated, res.Status)
	assert.Equal(t, "42", string(res.Body))

	res = r.HandleRequest(context.Background(), request(types.Get, "/items/42", ""))
	assert.Equal(t, types.StatusNotFound, res.Status)
}
