package prog_test

import (
	"os"
	"path/filepath"
	"testing"

	"src.deck.sh/pkg/config"
	"src.deck.sh/pkg/logutil"
	"src.deck.sh/pkg/must"
	. "src.deck.sh/pkg/prog"
	"src.deck.sh/pkg/prog/progtest"
	"src.deck.sh/pkg/testutil"
)

var (
	Test     = progtest.Test
	ThatDeck = progtest.ThatDeck
)

func inTempConfig(t *testing.T) string {
	dir := t.TempDir()
	testutil.Setenv(t, "XDG_CONFIG_HOME", dir)
	testutil.Setenv(t, "XDG_DATA_HOME", dir)
	return dir
}

func TestCommonFlagHandling(t *testing.T) {
	inTempConfig(t)

	Test(t, testProgram{},
		ThatDeck("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatDeck("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatDeck("-help").
			WritesStdoutContaining("Usage: deck [flags] [args]"),

		ThatDeck("-config", "/a/bad/path").
			ExitsWith(2).
			WritesStderrContaining("cannot load config:"),
	)
}

func TestLogFlag(t *testing.T) {
	dir := inTempConfig(t)
	logPath := filepath.Join(dir, "deck.log")
	t.Cleanup(func() { logutil.SetOutputFile("") })

	Test(t, testProgram{},
		ThatDeck("-log", logPath).DoesNothing(),
	)
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestConfigIsPopulated(t *testing.T) {
	dir := inTempConfig(t)
	configPath := filepath.Join(dir, "config.yaml")
	must.WriteFile(configPath, "listen: localhost:1\nhistory_limit: 3\n")

	p := &configProgram{}
	Test(t, p,
		ThatDeck("-config", configPath, "-db", "/x/db.bolt").DoesNothing(),
	)
	if p.cfg.Listen != "localhost:1" || p.cfg.HistoryLimit != 3 {
		t.Errorf("config file not applied: %+v", *p.cfg)
	}
	if p.cfg.DB != "/x/db.bolt" {
		t.Errorf("-db not applied: got %q", p.cfg.DB)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	inTempConfig(t)
	Test(t, testProgram{nextProgram: true},
		ThatDeck().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	inTempConfig(t)
	Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{writeOut: "program 2"}),
		ThatDeck().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	inTempConfig(t)
	Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{nextProgram: true}),
		ThatDeck().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	inTempConfig(t)
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatDeck().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	inTempConfig(t)
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatDeck().ExitsWith(2).WritesStderrContaining("lorem ipsum\nUsage:"),
	)
}

func TestExitError(t *testing.T) {
	inTempConfig(t)
	Test(t, testProgram{returnErr: Exit(3)},
		ThatDeck().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	inTempConfig(t)
	Test(t, testProgram{returnErr: Exit(0)},
		ThatDeck().ExitsWith(0),
	)
}

type testProgram struct {
	nextProgram bool
	writeOut    string
	returnErr   error
}

func (testProgram) RegisterFlags(*FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		return ErrNextProgram
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type configProgram struct {
	cfg *config.Config
}

func (p *configProgram) RegisterFlags(fs *FlagSet) { p.cfg = fs.Config() }

func (p *configProgram) Run(fds [3]*os.File, args []string) error { return nil }
