// Deck serves and administers slide presentations. Its editing server keeps an
// undoable, selection-aware editing session per client, and saves documents as
// they are edited.
package main

import (
	"os"

	"src.deck.sh/pkg/buildinfo"
	"src.deck.sh/pkg/docs"
	"src.deck.sh/pkg/prog"
	"src.deck.sh/pkg/server"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &docs.Program{}, &server.Program{})))
}
