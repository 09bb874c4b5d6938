package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.uber.org/zap"

	"src.deck.sh/pkg/edit"
	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/session"
	"src.deck.sh/pkg/store/storedefs"
)

// Error codes beyond those defined by JSON-RPC.
const (
	CodeNotFound        = -32001
	CodeInvalidDocument = -32002
)

// ChangedMethod is the method of the notification sent after every change to
// the state of a connection's session.
const ChangedMethod = "document/changed"

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
)

func invalidParams(err error) *jsonrpc2.Error {
	return &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params: " + err.Error()}
}

// Converts an error from a method to an error sent to the client.
func rpcError(err error) *jsonrpc2.Error {
	var rpcErr *jsonrpc2.Error
	switch {
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.Is(err, storedefs.ErrNotFound):
		return &jsonrpc2.Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, model.ErrInvalidDocument):
		return &jsonrpc2.Error{Code: CodeInvalidDocument, Message: err.Error()}
	default:
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
}

type method func(context.Context, json.RawMessage) (any, error)

// connection holds the state of one client: a workspace with its own session,
// and the changes not yet sent to the client.
type connection struct {
	store       storedefs.Store
	ws          *session.Workspace
	unsubscribe func()

	pendingMutex sync.Mutex
	pending      []session.Change
}

func newConnection(store storedefs.Store, ws *session.Workspace) *connection {
	c := &connection{store: store, ws: ws}
	c.unsubscribe = ws.Session().Subscribe(func(change session.Change) {
		c.pendingMutex.Lock()
		defer c.pendingMutex.Unlock()
		c.pending = append(c.pending, change)
	})
	return c
}

func (c *connection) close(ctx context.Context) error {
	c.unsubscribe()
	return c.ws.Close(ctx)
}

// Sends changes recorded while handling a request, before its response.
func (c *connection) flush(ctx context.Context, conn jsonrpc2.JSONRPC2) {
	c.pendingMutex.Lock()
	pending := c.pending
	c.pending = nil
	c.pendingMutex.Unlock()
	for _, change := range pending {
		if err := conn.Notify(ctx, ChangedMethod, change); err != nil {
			logger.Warn("failed to send change", zap.Error(err))
			return
		}
	}
}

func (c *connection) handler() jsonrpc2.Handler {
	methods := c.methods()
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			requestsTotal.WithLabelValues("unknown", "error").Inc()
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		result, err := fn(ctx, params)
		c.flush(ctx, conn)
		if err != nil {
			requestsTotal.WithLabelValues(req.Method, "error").Inc()
			logger.Debug("request failed", zap.String("method", req.Method), zap.Error(err))
			return nil, rpcError(err)
		}
		requestsTotal.WithLabelValues(req.Method, "ok").Inc()
		return result, nil
	})
}

// Decodes params into v. Absent params leave v unchanged; unknown fields are
// rejected.
func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalidParams(err)
	}
	return nil
}

// Results.

type changedResult struct {
	Changed bool `json:"changed"`
}

type refResult struct {
	Ref string `json:"ref"`
}

func (c *connection) methods() map[string]method {
	ms := map[string]method{
		"document/new":     c.newDocument,
		"document/open":    c.openDocument,
		"document/list":    c.listDocuments,
		"document/current": c.current,
		"document/save":    c.save,

		"history/undo": c.historyStep(c.ws.Session().Undo, "undo"),
		"history/redo": c.historyStep(c.ws.Session().Redo, "redo"),

		"asset/upload": c.uploadAsset,
	}
	for name, op := range editOps(c.ws.IDs()) {
		ms["edit/"+name] = c.edit(op)
	}
	return ms
}

// Handler implementations. These are all called synchronously.

func (c *connection) newDocument(ctx context.Context, _ json.RawMessage) (any, error) {
	if _, err := c.ws.New(ctx); err != nil {
		return nil, err
	}
	return c.ws.Session().Snapshot(), nil
}

func (c *connection) openDocument(ctx context.Context, raw json.RawMessage) (any, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, invalidParams(errors.New("id is required"))
	}
	if err := c.ws.Open(ctx, params.ID); err != nil {
		return nil, err
	}
	return c.ws.Session().Snapshot(), nil
}

func (c *connection) listDocuments(ctx context.Context, _ json.RawMessage) (any, error) {
	infos, err := c.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []storedefs.DocumentInfo{}
	}
	return infos, nil
}

func (c *connection) current(context.Context, json.RawMessage) (any, error) {
	return c.ws.Session().Snapshot(), nil
}

func (c *connection) save(ctx context.Context, _ json.RawMessage) (any, error) {
	return nil, c.ws.Save(ctx)
}

func (c *connection) historyStep(step func() bool, direction string) method {
	return func(context.Context, json.RawMessage) (any, error) {
		ok := step()
		if ok {
			historyStepsTotal.WithLabelValues(direction).Inc()
		}
		return changedResult{ok}, nil
	}
}

func (c *connection) uploadAsset(ctx context.Context, raw json.RawMessage) (any, error) {
	var params struct {
		// Base64-encoded in JSON.
		Data []byte `json:"data"`
	}
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if len(params.Data) == 0 {
		return nil, invalidParams(errors.New("data is required"))
	}
	ref, err := c.ws.Upload(ctx, params.Data)
	if err != nil {
		return nil, err
	}
	return refResult{ref}, nil
}

func (c *connection) edit(op func(edit.State, editParams) edit.State) method {
	return func(_ context.Context, raw json.RawMessage) (any, error) {
		var params editParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		changed := c.ws.Session().Dispatch(func(st edit.State) edit.State {
			return op(st, params)
		})
		editsTotal.WithLabelValues(strconv.FormatBool(changed)).Inc()
		return changedResult{changed}, nil
	}
}
