package prog

import (
	"flag"

	"src.deck.sh/pkg/config"
)

// FlagSet wraps a [flag.FlagSet] and provides flags shared by multiple
// subprograms. Shared flags are registered the first time they are requested.
type FlagSet struct {
	*flag.FlagSet
	cfg  *config.Config
	db   string
	json *bool
}

// Config returns the configuration, which is populated after flags are parsed
// and before any subprogram is run. It also registers the -db flag, which
// overrides the configured database path.
func (fs *FlagSet) Config() *config.Config {
	if fs.cfg == nil {
		fs.cfg = &config.Config{}
		fs.StringVar(&fs.db, "db", "",
			"path to the database file; overrides the config")
	}
	return fs.cfg
}

func (fs *FlagSet) apply(cfg *config.Config) {
	if fs.db != "" {
		cfg.DB = fs.db
	}
}

// JSON returns the value of the -json flag, registering it if needed.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"show the output from -buildinfo, -version or -list in JSON")
		fs.json = &json
	}
	return fs.json
}
