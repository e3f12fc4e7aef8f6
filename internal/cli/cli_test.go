package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/pkg/editor"
	errs "github.com/matzehuels/casperflow/pkg/errors"
	pkgio "github.com/matzehuels/casperflow/pkg/io"
)

const notBlock = `{"name":"not","inputs":[{"name":"A","kind":"Wire"}],"outputs":[{"name":"Y","kind":"Wire"}]}`

// chainDesign drives not.A from src.a and leaves sink.x undriven.
const chainDesign = `{
  "modules": [
    {"name": "src", "position": {"x": 0, "y": 0}, "inputs": [], "outputs": [{"name": "a", "kind": "Wire"}]},
    {"name": "not", "position": {"x": 100, "y": 0}, "inputs": [{"name": "A", "kind": "Wire"}], "outputs": [{"name": "Y", "kind": "Wire"}]},
    {"name": "sink", "position": {"x": 200, "y": 0}, "inputs": [{"name": "x", "kind": "Wire"}], "outputs": []}
  ],
  "wires": [
    {"from": {"module": 0, "pin": 0}, "to": {"module": 1, "pin": 0}}
  ]
}`

// setupEnv points every XDG directory at a temp dir and returns a work dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return t.TempDir()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"library", "design", "render", "browse", "serve", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLibraryCommands(t *testing.T) {
	dir := setupEnv(t)
	block := writeFile(t, dir, "not.json", notBlock)

	if err := runCLI(t, "library", "add", block); err != nil {
		t.Fatalf("library add: %v", err)
	}
	if err := runCLI(t, "library", "list"); err != nil {
		t.Fatalf("library list: %v", err)
	}

	out := filepath.Join(dir, "exported.json")
	if err := runCLI(t, "library", "export", "not", "-o", out); err != nil {
		t.Fatalf("library export: %v", err)
	}
	lm, err := pkgio.ImportLibrary(out)
	if err != nil || lm.Name != "not" || len(lm.Inputs) != 1 {
		t.Fatalf("exported block = %+v, %v", lm, err)
	}

	if err := runCLI(t, "library", "rm", "not"); err != nil {
		t.Fatalf("library rm: %v", err)
	}
	if err := runCLI(t, "library", "show", "not"); err == nil {
		t.Error("library show after rm succeeded")
	}
}

func TestLibraryAddInvalid(t *testing.T) {
	dir := setupEnv(t)
	bad := writeFile(t, dir, "bad.json", `{"name":"","inputs":[]}`)
	if err := runCLI(t, "library", "add", bad); err == nil {
		t.Error("library add accepted a block without a name")
	}
}

func TestConfigFlag(t *testing.T) {
	dir := setupEnv(t)
	cfg := writeFile(t, dir, "config.toml", "[store]\nbackend = \"null\"\n")
	block := writeFile(t, dir, "not.json", notBlock)

	if err := runCLI(t, "--config", cfg, "library", "add", block); err != nil {
		t.Fatalf("library add: %v", err)
	}
	// The null store keeps nothing.
	if err := runCLI(t, "--config", cfg, "library", "show", "not"); err == nil {
		t.Error("null store returned a block")
	}
	if err := runCLI(t, "--config", filepath.Join(dir, "missing.toml"), "library", "list"); err == nil {
		t.Error("missing --config file accepted")
	}
}

func TestDesignCheck(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "chain.json", chainDesign)

	if err := runCLI(t, "design", "check", path); err != nil {
		t.Fatalf("design check: %v", err)
	}
	if err := runCLI(t, "design", "check", "--strict", path); err == nil {
		t.Error("design check --strict passed with an undriven input")
	}
	if err := runCLI(t, "design", "check", filepath.Join(dir, "nope.json")); err == nil {
		t.Error("design check on a missing file succeeded")
	}

	doubleDriven := strings.Replace(chainDesign,
		`{"from": {"module": 0, "pin": 0}, "to": {"module": 1, "pin": 0}}`,
		`{"from": {"module": 0, "pin": 0}, "to": {"module": 1, "pin": 0}},
    {"from": {"module": 1, "pin": 0}, "to": {"module": 1, "pin": 0}}`, 1)
	bad := writeFile(t, dir, "double.json", doubleDriven)
	if err := runCLI(t, "design", "check", bad); err == nil {
		t.Error("design check accepted a doubly driven input")
	}
}

func TestDesignCheckIdentifiers(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "adder.json", `{
  "modules": [
    {"name": "full adder", "position": {"x": 0, "y": 0}, "inputs": [], "outputs": [{"name": "sum", "kind": "Wire"}]}
  ],
  "wires": []
}`)

	if err := runCLI(t, "design", "check", path); err != nil {
		t.Fatalf("design check: %v", err)
	}
	if err := runCLI(t, "design", "check", "--strict", path); !errs.Is(err, errs.ErrCodeInvalidName) {
		t.Errorf("design check --strict = %v, want INVALID_NAME", err)
	}
}

func TestBadIdentifiers(t *testing.T) {
	g := editor.Graph{Modules: []editor.Module{
		{Name: "and", Inputs: []editor.Port{{Name: "A"}, {Name: "2b"}}},
		{Name: "full adder", Outputs: []editor.Port{{Name: "sum"}}},
	}}
	got := badIdentifiers(g)
	want := []string{`and."2b"`, `"full adder"`}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("badIdentifiers() = %v, want %v", got, want)
	}
}

func TestDesignStore(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "chain.json", chainDesign)

	if err := runCLI(t, "design", "save", "chain", path); err != nil {
		t.Fatalf("design save: %v", err)
	}
	if err := runCLI(t, "design", "list"); err != nil {
		t.Fatalf("design list: %v", err)
	}
	out := filepath.Join(dir, "loaded.json")
	if err := runCLI(t, "design", "load", "chain", "-o", out); err != nil {
		t.Fatalf("design load: %v", err)
	}
	d, err := pkgio.ImportDesign(out)
	if err != nil {
		t.Fatalf("ImportDesign: %v", err)
	}
	if len(d.Modules) != 3 || len(d.Wires) != 1 {
		t.Errorf("loaded design has %d modules, %d wires", len(d.Modules), len(d.Wires))
	}
	if err := runCLI(t, "design", "rm", "chain"); err != nil {
		t.Fatalf("design rm: %v", err)
	}
	if err := runCLI(t, "design", "load", "chain"); err == nil {
		t.Error("design load after rm succeeded")
	}
}

func TestRenderDOTAndJSON(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "chain.json", chainDesign)
	base := filepath.Join(dir, "out")

	if err := runCLI(t, "render", path, "-f", "dot,json", "-o", base, "--detailed"); err != nil {
		t.Fatalf("render: %v", err)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output = %q", dot)
	}
	if _, err := pkgio.ImportDesign(base + ".json"); err != nil {
		t.Errorf("json output: %v", err)
	}

	if err := runCLI(t, "render", path, "-f", "gif"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif = %v, want INVALID_FORMAT", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		format  string
		want    string
	}{
		{"single explicit", "diagram.svg", []string{"svg"}, "svg", "diagram.svg"},
		{"single derived", "", []string{"svg"}, "svg", "design.svg"},
		{"multiple", "out/diagram.svg", []string{"svg", "dot"}, "dot", "out/diagram.dot"},
		{"never the input", "", []string{"json"}, "json", "design.out.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &renderOpts{output: tt.output, formats: tt.formats}
			if got := outputPath(opts, "design.json", tt.format); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFloatingInputs(t *testing.T) {
	g := editor.Graph{
		Modules: []editor.Module{
			{ID: 0, Name: "src", Outputs: []editor.Port{{ID: 0, Name: "a"}}},
			{ID: 1, Name: "and", Inputs: []editor.Port{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}},
		},
		Wires: []editor.Wire{{ID: 0, X: 1, Y: 0}},
	}
	got := floatingInputs(g)
	if len(got) != 1 || got[0] != "and.B" {
		t.Errorf("floatingInputs() = %v, want [and.B]", got)
	}
}

func TestCompleteStoredNames(t *testing.T) {
	dir := setupEnv(t)
	block := writeFile(t, dir, "not.json", notBlock)
	if err := runCLI(t, "library", "add", block); err != nil {
		t.Fatalf("library add: %v", err)
	}
	if err := runCLI(t, "design", "save", "chain", writeFile(t, dir, "chain.json", chainDesign)); err != nil {
		t.Fatalf("design save: %v", err)
	}

	c := New(io.Discard, LogInfo)
	cmd := &cobra.Command{}
	tests := []struct {
		name       string
		fn         cobra.CompletionFunc
		args       []string
		toComplete string
		want       []string
	}{
		{"blocks", c.completeBlocks(false), nil, "n", []string{"not"}},
		{"no prefix match", c.completeBlocks(false), nil, "x", nil},
		{"already given", c.completeBlocks(false), []string{"not"}, "", nil},
		{"single arg taken", c.completeBlocks(true), []string{"other"}, "", nil},
		{"designs", c.completeDesigns(true), nil, "", []string{"chain"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := tt.fn(cmd, tt.args, tt.toComplete)
			if directive != cobra.ShellCompDirectiveNoFileComp {
				t.Errorf("directive = %v", directive)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
		})
	}
}
