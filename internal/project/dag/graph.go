// Package dag builds the import graph of a set of Active Oberon modules,
// reports structural problems through the owning module's reporter and
// orders modules so that every module comes after the modules it imports.
package dag

import (
	"fmt"
	"slices"
	"strings"

	"aoc/internal/diag"
	"aoc/internal/project"
	"aoc/internal/source"
)

type Graph struct {
	Deps    [][]ModuleID // Deps[m]: импортируемые модули, отсортированы
	Users   [][]ModuleID // Users[m]: кто импортирует m
	Pending []int        // число присутствующих зависимостей, для Kahn
	Present []bool       // модуль реально есть среди файлов, а не только импортируется
}

type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

// BuildGraph places nodes into slots and links imports. A second module
// with the same name is a duplicate. Imports of modules that are not part
// of the set are reported as warnings: they may come from a library that
// was not checked.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	n := len(idx.IDToName)
	g := Graph{
		Deps:    make([][]ModuleID, n),
		Users:   make([][]ModuleID, n),
		Pending: make([]int, n),
		Present: make([]bool, n),
	}
	slots := make([]ModuleSlot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Name]
		if node.Meta.Name == "" || !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			b := diag.ReportError(node.Reporter, diag.ProjDuplicateModule, node.Meta.Span,
				fmt.Sprintf("duplicate module %s", node.Meta.Name))
			if slot.Meta.Span != (source.Span{}) {
				b.WithNote(slot.Meta.Span, fmt.Sprintf("module %s is also declared in %s", node.Meta.Name, slot.Meta.Path))
			}
			b.Emit()
			continue
		}
		*slot = ModuleSlot{
			Meta:     node.Meta,
			Reporter: node.Reporter,
			Present:  true,
			Broken:   node.Broken,
			FirstErr: node.FirstErr,
		}
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		for _, dep := range slot.Meta.Imports {
			to, ok := idx.NameToID[dep.Name]
			if !ok {
				continue
			}
			if int(to) == from {
				diag.ReportError(slot.Reporter, diag.ProjSelfImport, dep.Span,
					fmt.Sprintf("module %s imports itself", slot.Meta.Name)).Emit()
				continue
			}
			if slices.Contains(g.Deps[from], to) {
				continue
			}
			g.Deps[from] = append(g.Deps[from], to)
			if !g.Present[int(to)] {
				diag.ReportWarning(slot.Reporter, diag.ProjMissingModule, dep.Span,
					fmt.Sprintf("module %s imports %s, which is not among the checked files", slot.Meta.Name, dep.Name)).Emit()
				continue
			}
			g.Users[int(to)] = append(g.Users[int(to)], ModuleID(from))
			g.Pending[from]++
		}
		slices.Sort(g.Deps[from])
	}
	for i := range g.Users {
		slices.Sort(g.Users[i])
	}
	return g, slots
}

// ReportCycles reports every module left in a cycle by the sort.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo *Topo) {
	if !topo.Cyclic {
		return
	}
	summary := strings.Join(idx.Names(topo.Cycles), ", ")
	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present {
			continue
		}
		diag.ReportError(slot.Reporter, diag.ProjImportCycle, slot.Meta.Span,
			fmt.Sprintf("module %s cannot be ordered: import cycle among %s", slot.Meta.Name, summary)).Emit()
	}
}

// ReportBrokenDeps points every import of a module with errors at the
// first error of that module.
func ReportBrokenDeps(idx ModuleIndex, slots []ModuleSlot) {
	for i := range slots {
		from := &slots[i]
		if !from.Present {
			continue
		}
		for _, imp := range from.Meta.Imports {
			to, ok := idx.NameToID[imp.Name]
			if !ok || !slots[int(to)].Broken {
				continue
			}
			dep := slots[int(to)]
			b := diag.ReportError(from.Reporter, diag.ProjDependencyFailed, imp.Span,
				fmt.Sprintf("imported module %s has errors", imp.Name))
			if dep.FirstErr != nil {
				b.WithNote(dep.FirstErr.Primary, "first error in dependency: "+dep.FirstErr.Message)
			}
			b.Emit()
		}
	}
}

// Hashes fills ModuleHash of every present module in load order: the
// content hash combined with the module hashes of its dependencies.
// Modules in a cycle keep their content hash only.
func Hashes(g Graph, slots []ModuleSlot, topo *Topo) {
	for _, id := range topo.Order {
		slot := &slots[int(id)]
		deps := make([]project.Digest, 0, len(g.Deps[int(id)]))
		for _, d := range g.Deps[int(id)] {
			if g.Present[int(d)] {
				deps = append(deps, slots[int(d)].Meta.ModuleHash)
			}
		}
		slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
	for _, id := range topo.Cycles {
		slots[int(id)].Meta.ModuleHash = slots[int(id)].Meta.ContentHash
	}
}
