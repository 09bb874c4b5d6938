package server

import (
	"cmp"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcegraph/jsonrpc2"

	"src.deck.sh/pkg/config"
	"src.deck.sh/pkg/prog"
	"src.deck.sh/pkg/session"
	"src.deck.sh/pkg/store"
)

// Program is the editing server subprogram.
type Program struct {
	rpc, serve bool
	listen     string
	cfg        *config.Config
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.rpc, "rpc", false, "serve the editing protocol on stdin and stdout")
	fs.BoolVar(&p.serve, "serve", false, "serve the editing protocol over websocket")
	fs.StringVar(&p.listen, "listen", "", "address to serve on with -serve; overrides the config")
	p.cfg = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.rpc && !p.serve {
		return prog.ErrNextProgram
	}
	if p.rpc && p.serve {
		return prog.BadUsage("-rpc and -serve can't be used together")
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -rpc or -serve")
	}

	st, err := store.NewStore(p.cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	s := New(st, session.UUIDs{}, session.Config{
		SaveDelay: p.cfg.SaveDelay, HistoryLimit: p.cfg.HistoryLimit})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if p.rpc {
		stream := jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{})
		return s.ServeStream(ctx, stream, "stdio")
	}
	return s.ListenAndServe(ctx, cmp.Or(p.listen, p.cfg.Listen))
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
