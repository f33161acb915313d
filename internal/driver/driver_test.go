package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"aoc/internal/buildpipeline"
	"aoc/internal/diag"
	"aoc/internal/isa"
	"aoc/internal/observ"
	"aoc/internal/token"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestTokenizeSource(t *testing.T) {
	res := TokenizeSource("m.Mod", []byte("MODULE M; END M."), Options{})
	kinds := make([]token.Kind, len(res.Tokens))
	for i, tok := range res.Tokens {
		kinds[i] = tok.Kind
	}
	want := []token.Kind{token.KwModule, token.Ident, token.Semicolon, token.KwEnd, token.Ident, token.Period, token.EOF}
	if !slices.Equal(kinds, want) {
		t.Fatalf("kinds = %v", kinds)
	}
	if res.Err != nil || res.Bag.Len() != 0 {
		t.Fatalf("unexpected errors: %v", res.Err)
	}

	bad := TokenizeSource("bad.Mod", []byte("x := 'abc"), Options{})
	if bad.Err == nil || bad.Err.Code != diag.LexUnterminatedString || !bad.Bag.HasErrors() {
		t.Fatalf("err = %v", bad.Err)
	}
}

func TestParseSourceCounters(t *testing.T) {
	src := "MODULE M;\nPROCEDURE P;\nCODE {SYSTEM.CPU_AMD64}\n  PUSH RBP\n  POP RBP\n  RET\nEND P;\nEND M."
	timer := observ.NewTimer()
	res := ParseSource(context.Background(), "m.Mod", []byte(src), Options{Arch: isa.ArchAMD64, Timer: timer})
	if res.Err != nil {
		t.Fatalf("parse: %v", res.Err)
	}
	if res.Module == nil || res.Module.Name.Name != "M" {
		t.Fatalf("module = %+v", res.Module)
	}
	counters := timer.Report().Counters
	if counters["files"] != 1 || counters["code_blocks"] != 1 || counters["code_bytes"] != 3 {
		t.Fatalf("counters = %v", counters)
	}
}

func TestParseFailFast(t *testing.T) {
	res := ParseSource(context.Background(), "e.Mod", []byte("MODULE M\nEND M."), Options{})
	if res.Module != nil {
		t.Fatalf("module must be nil on error")
	}
	de, ok := diag.AsError(res.Err)
	if !ok || de.Code != diag.SynExpectSemicolon {
		t.Fatalf("err = %v", res.Err)
	}
	if !strings.HasSuffix(res.Err.Error(), "position: '9'") {
		t.Fatalf("message = %q", res.Err.Error())
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.SynExpectSemicolon {
		t.Fatalf("bag = %+v", res.Bag.Items())
	}
}

func TestParseFromDiskNormalizes(t *testing.T) {
	dir := writeTree(t, map[string]string{"W.Mod": "\ufeffMODULE W;\r\nEND W.\r\n"})
	res, err := Parse(context.Background(), filepath.Join(dir, "W.Mod"), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Err != nil || bytes.Contains(res.File.Content, []byte("\r")) {
		t.Fatalf("err = %v, content = %q", res.Err, res.File.Content)
	}
	if _, err := Parse(context.Background(), filepath.Join(dir, "missing.Mod"), Options{}); err == nil {
		t.Fatalf("expected I/O error")
	}
}

func TestListSources(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b/B.Mod":    "MODULE B; END B.",
		"A.Mod":      "MODULE A; END A.",
		"notes.txt":  "text",
		"c/C.mod":    "MODULE C; END C.",
		"c/D.Mod.bk": "backup",
	})
	files, err := ListSources(dir, Options{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if !slices.Equal(rel, []string{"A.Mod", "b/B.Mod", "c/C.mod"}) {
		t.Fatalf("files = %v", rel)
	}

	only, err := ListSources(filepath.Join(dir, "notes.txt"), Options{})
	if err != nil || len(only) != 1 {
		t.Fatalf("single file = %v, %v", only, err)
	}
}

func TestParseDirParallel(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"A.Mod": "MODULE A; VAR x: INTEGER; END A.",
		"B.Mod": "MODULE B; BEGIN x := END B.",
		"C.Mod": "MODULE C; END C.",
	})
	var mu sync.Mutex
	var events []buildpipeline.Event
	sink := buildpipeline.FuncSink(func(e buildpipeline.Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	fs, results, err := ParseDir(context.Background(), dir, Options{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("parse dir: %v", err)
	}
	if fs.Len() != 3 || len(results) != 3 {
		t.Fatalf("files = %d, results = %d", fs.Len(), len(results))
	}
	for i, want := range []string{"A.Mod", "B.Mod", "C.Mod"} {
		if filepath.Base(results[i].Path) != want {
			t.Fatalf("result %d = %s, want %s", i, results[i].Path, want)
		}
	}
	if results[0].Module == nil || results[2].Module == nil {
		t.Fatalf("good files must parse")
	}
	if results[1].Module != nil || results[1].Err == nil || !results[1].Bag.HasErrors() {
		t.Fatalf("broken file = %+v", results[1])
	}
	if len(events) != 3 {
		t.Fatalf("events = %+v", events)
	}
	var errorsSeen int
	for _, e := range events {
		if e.Status == buildpipeline.StatusError {
			errorsSeen++
		}
	}
	if errorsSeen != 1 {
		t.Fatalf("error events = %d", errorsSeen)
	}
}

func TestTokenizeDir(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"A.Mod": "MODULE A; END A.",
		"B.Mod": "(* open",
	})
	_, results, err := TokenizeDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("tokenize dir: %v", err)
	}
	if len(results) != 2 || len(results[0].Tokens) != 7 {
		t.Fatalf("results = %+v", results)
	}
	if !results[1].Bag.HasErrors() || results[1].Bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("comment error missing: %+v", results[1].Bag.Items())
	}
}

func TestAssembleAndDisassemble(t *testing.T) {
	res := AssembleSource("f.asm", []byte("PUSH RBP\nPOP RBP\nRET\n"), Options{Arch: isa.ArchAMD64})
	if res.Err != nil {
		t.Fatalf("assemble: %v", res.Err)
	}
	if !bytes.Equal(res.Block.Code, []byte{0x55, 0x5D, 0xC3}) {
		t.Fatalf("code = % X", res.Block.Code)
	}

	code, err := ParseHex("55 5d\nc3")
	if err != nil || !bytes.Equal(code, res.Block.Code) {
		t.Fatalf("hex = % X, %v", code, err)
	}
	text, err := Disassemble(code, Options{Arch: isa.ArchAMD64})
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	for _, want := range []string{"PUSH RBP", "POP RBP", "RET"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
	if _, err := ParseHex("5G"); err == nil {
		t.Fatalf("expected hex error")
	}

	bad := AssembleSource("bad.asm", []byte("FROB\n"), Options{})
	if bad.Err == nil || bad.Bag.Len() != 1 || bad.Bag.Items()[0].Code != diag.AsmIllegalInstruction {
		t.Fatalf("bad = %v, %+v", bad.Err, bad.Bag.Items())
	}
}
