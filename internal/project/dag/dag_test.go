package dag

import (
	"slices"
	"testing"

	"aoc/internal/diag"
	"aoc/internal/project"
	"aoc/internal/source"
)

func imports(names ...string) []project.ImportMeta {
	out := make([]project.ImportMeta, len(names))
	for i, n := range names {
		out[i] = project.ImportMeta{Name: n, Span: source.Span{File: 9, Start: uint32(i), End: uint32(i + 1)}}
	}
	return out
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "Main", Imports: imports("Math", "Util")},
		{Name: "Util"},
	}

	idx := BuildIndex(metas)

	wantNames := []string{"Main", "Math", "Util"}
	if !slices.Equal(idx.IDToName, wantNames) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, wantNames)
	}
	for i, want := range wantNames {
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildGraphWarnsOnMissingModules(t *testing.T) {
	app := project.ModuleMeta{Name: "App", Span: source.Span{File: 1, End: 10}, Imports: imports("Core", "Util")}
	core := project.ModuleMeta{Name: "Core", Span: source.Span{File: 2, End: 8}, Imports: imports("Util")}

	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: app, Reporter: &diag.BagReporter{Bag: bagApp}},
		{Meta: core, Reporter: &diag.BagReporter{Bag: bagCore}},
	}
	idx := BuildIndex([]project.ModuleMeta{app, core})
	graph, _ := BuildGraph(idx, nodes)

	appID, coreID, utilID := idx.NameToID["App"], idx.NameToID["Core"], idx.NameToID["Util"]
	if !slices.Equal(graph.Deps[appID], []ModuleID{coreID, utilID}) {
		t.Fatalf("App deps = %v", graph.Deps[appID])
	}
	if !slices.Equal(graph.Users[coreID], []ModuleID{appID}) {
		t.Fatalf("Core users = %v", graph.Users[coreID])
	}
	if graph.Pending[appID] != 1 || graph.Pending[coreID] != 0 {
		t.Fatalf("pending = %v", graph.Pending)
	}
	if graph.Present[utilID] {
		t.Fatalf("Util must not be present")
	}

	for name, bag := range map[string]*diag.Bag{"App": bagApp, "Core": bagCore} {
		if bag.Len() != 1 {
			t.Fatalf("%s diagnostics = %d, want 1", name, bag.Len())
		}
		d := bag.Items()[0]
		if d.Code != diag.ProjMissingModule || d.Severity != diag.SevWarning {
			t.Fatalf("%s diagnostic = %+v", name, d)
		}
	}
}

func TestBuildGraphDuplicateAndSelfImport(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 5}
	spanB := source.Span{File: 2, Start: 0, End: 5}
	metaA := project.ModuleMeta{Name: "Dup", Path: "a/Dup.Mod", Span: spanA, Imports: imports("Dup")}
	metaB := project.ModuleMeta{Name: "Dup", Path: "b/Dup.Mod", Span: spanB}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bagB}},
	}
	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	graph, slots := BuildGraph(idx, nodes)

	id := idx.NameToID["Dup"]
	if !graph.Present[id] || slots[id].Meta.Span != spanA {
		t.Fatalf("slot must keep the first declaration")
	}
	if len(graph.Deps[id]) != 0 {
		t.Fatalf("self import produced an edge: %v", graph.Deps[id])
	}
	if bagA.Len() != 1 || bagA.Items()[0].Code != diag.ProjSelfImport {
		t.Fatalf("first module diagnostics = %+v", bagA.Items())
	}
	if bagB.Len() != 1 {
		t.Fatalf("duplicate diagnostics = %d", bagB.Len())
	}
	d := bagB.Items()[0]
	if d.Code != diag.ProjDuplicateModule || len(d.Notes) != 1 || d.Notes[0].Span != spanA {
		t.Fatalf("duplicate diagnostic = %+v", d)
	}
}

func TestToposortKahnLoadOrder(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "B", Imports: imports("C")},
		{Name: "A"},
		{Name: "C"},
		{Name: "D", Imports: imports("B", "A")},
	}
	nodes := make([]ModuleNode, len(metas))
	for i, m := range metas {
		nodes[i] = ModuleNode{Meta: m}
	}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(graph)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", idx.Names(topo.Cycles))
	}
	if got := idx.Names(topo.Order); !slices.Equal(got, []string{"A", "C", "B", "D"}) {
		t.Fatalf("order = %v", got)
	}
	want := [][]string{{"A", "C"}, {"B"}, {"D"}}
	if len(topo.Batches) != len(want) {
		t.Fatalf("batches = %v", topo.Batches)
	}
	for i := range want {
		if got := idx.Names(topo.Batches[i]); !slices.Equal(got, want[i]) {
			t.Fatalf("batch %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestReportCycles(t *testing.T) {
	metaA := project.ModuleMeta{Name: "A", Span: source.Span{File: 1, End: 4}, Imports: imports("B")}
	metaB := project.ModuleMeta{Name: "B", Span: source.Span{File: 2, End: 4}, Imports: imports("A")}
	metaC := project.ModuleMeta{Name: "C", Span: source.Span{File: 3, End: 4}}

	bags := []*diag.Bag{diag.NewBag(10), diag.NewBag(10), diag.NewBag(10)}
	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bags[0]}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bags[1]}},
		{Meta: metaC, Reporter: &diag.BagReporter{Bag: bags[2]}},
	}
	idx := BuildIndex([]project.ModuleMeta{metaA, metaB, metaC})
	graph, slots := BuildGraph(idx, nodes)

	topo := ToposortKahn(graph)
	if !topo.Cyclic || !slices.Equal(idx.Names(topo.Cycles), []string{"A", "B"}) {
		t.Fatalf("topo = %+v", topo)
	}
	if !slices.Equal(idx.Names(topo.Order), []string{"C"}) {
		t.Fatalf("order = %v", idx.Names(topo.Order))
	}

	ReportCycles(idx, slots, topo)
	for i, bag := range bags[:2] {
		if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjImportCycle {
			t.Fatalf("module %d diagnostics = %+v", i, bag.Items())
		}
	}
	if bags[2].Len() != 0 {
		t.Fatalf("acyclic module got diagnostics: %+v", bags[2].Items())
	}
}

func TestReportBrokenDeps(t *testing.T) {
	firstErr := diag.NewError(diag.SynExpectSemicolon, source.Span{File: 2, Start: 7, End: 8}, "expected ';'")
	lib := project.ModuleMeta{Name: "Lib", Span: source.Span{File: 2, End: 20}}
	app := project.ModuleMeta{Name: "App", Span: source.Span{File: 1, End: 20}, Imports: imports("Lib")}

	bag := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: app, Reporter: &diag.BagReporter{Bag: bag}},
		{Meta: lib, Broken: true, FirstErr: &firstErr},
	}
	idx := BuildIndex([]project.ModuleMeta{app, lib})
	_, slots := BuildGraph(idx, nodes)
	ReportBrokenDeps(idx, slots)

	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.ProjDependencyFailed || len(d.Notes) != 1 || d.Notes[0].Span != firstErr.Primary {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestHashesFollowDependencies(t *testing.T) {
	lib := project.ModuleMeta{Name: "Lib", ContentHash: project.Digest{1}}
	app := project.ModuleMeta{Name: "App", ContentHash: project.Digest{2}, Imports: imports("Lib")}
	idx := BuildIndex([]project.ModuleMeta{app, lib})
	graph, slots := BuildGraph(idx, []ModuleNode{{Meta: app}, {Meta: lib}})
	topo := ToposortKahn(graph)
	Hashes(graph, slots, topo)

	libHash := slots[idx.NameToID["Lib"]].Meta.ModuleHash
	appHash := slots[idx.NameToID["App"]].Meta.ModuleHash
	if libHash != project.Combine(lib.ContentHash) {
		t.Fatalf("lib hash mismatch")
	}
	if appHash != project.Combine(app.ContentHash, libHash) {
		t.Fatalf("app hash does not include its dependency")
	}
}
