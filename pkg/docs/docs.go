// Package docs implements the document administration subprogram, which
// lists, dumps, imports and deletes documents in the store.
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"src.deck.sh/pkg/config"
	"src.deck.sh/pkg/errutil"
	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/prog"
	"src.deck.sh/pkg/store"
	"src.deck.sh/pkg/store/storedefs"
)

// Program is the document administration subprogram.
type Program struct {
	list               bool
	dump, load, delete string
	json               *bool
	cfg                *config.Config
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.list, "list", false, "list documents and quit")
	fs.StringVar(&p.dump, "dump", "", "write the document with the given id to stdout and quit")
	fs.StringVar(&p.load, "import", "", "import a document from the given file, or stdin if -, and quit")
	fs.StringVar(&p.delete, "delete", "", "delete the document with the given id and quit")
	p.json = fs.JSON()
	p.cfg = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) (err error) {
	n := 0
	for _, set := range []bool{p.list, p.dump != "", p.load != "", p.delete != ""} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return prog.ErrNextProgram
	case n > 1:
		return prog.BadUsage("only one of -list, -dump, -import and -delete may be used")
	case len(args) > 0:
		return prog.BadUsage("arguments are not allowed with -list, -dump, -import or -delete")
	}

	st, err := store.NewStore(p.cfg.DB)
	if err != nil {
		return err
	}
	defer func() { err = errutil.Multi(err, st.Close()) }()

	ctx := context.Background()
	switch {
	case p.list:
		return list(ctx, st, fds[1], *p.json)
	case p.dump != "":
		return dump(ctx, st, fds[1], p.dump)
	case p.load != "":
		in := fds[0]
		if p.load != "-" {
			f, err := os.Open(p.load)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return importDoc(ctx, st, in, fds[1])
	default:
		return st.DeleteDocument(ctx, p.delete)
	}
}

func list(ctx context.Context, st storedefs.Store, w io.Writer, asJSON bool) error {
	infos, err := st.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		if infos == nil {
			infos = []storedefs.DocumentInfo{}
		}
		return json.NewEncoder(w).Encode(infos)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			info.ID, info.Title, info.Slides, info.Updated.Format(time.DateTime))
	}
	return tw.Flush()
}

func dump(ctx context.Context, st storedefs.Store, w io.Writer, id string) error {
	doc, err := st.LoadDocument(ctx, id)
	if err != nil {
		return err
	}
	data, err := model.Encode(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func importDoc(ctx context.Context, st storedefs.Store, r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	doc, err := model.Decode(data)
	if err != nil {
		return err
	}
	if err := st.SaveDocument(ctx, doc); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, doc.ID)
	return err
}
