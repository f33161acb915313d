// Package project describes the module-level view of a set of parsed
// translation units: which module a file declares and what it imports.
// The dag subpackage turns these descriptions into an import graph.
package project

import (
	"aoc/internal/ast"
	"aoc/internal/source"
)

// SystemModule is the pseudo-module built into the compiler. Importing it
// never creates a graph edge.
const SystemModule = "SYSTEM"

type ImportMeta struct {
	Name  string      // квалифицированное имя: "Context.Name" или "Name"
	Alias string      // локальное имя, если было "alias := Name"
	Span  source.Span // span импорта в файле импортирующего модуля
}

type ModuleMeta struct {
	Name        string // квалифицированное имя модуля
	Path        string // путь файла, как его видит FileSet
	Span        source.Span
	Imports     []ImportMeta
	ContentHash Digest // хеш содержимого файла (из FileSet)
	ModuleHash  Digest // хеш с учётом зависимостей, заполняется после топосортировки
}

// QualifiedName joins a module name and its optional context.
func QualifiedName(name, context string) string {
	if context == "" {
		return name
	}
	return context + "." + name
}

// MetaFromAST extracts module metadata from a parsed translation unit.
// Imports of SYSTEM and repeated imports of the same module are dropped.
func MetaFromAST(m *ast.Module, file *source.File) ModuleMeta {
	meta := ModuleMeta{Span: m.Span}
	if file != nil {
		meta.Path = file.Path
		meta.ContentHash = file.Hash
	}
	if m.Name != nil {
		var ctx string
		if m.Context != nil {
			ctx = m.Context.Name
		}
		meta.Name = QualifiedName(m.Name.Name, ctx)
	}
	if m.Imports == nil {
		return meta
	}
	seen := make(map[string]struct{}, len(m.Imports.Imports))
	for _, imp := range m.Imports.Imports {
		if imp.Name == nil || imp.Name.Name == SystemModule {
			continue
		}
		var ctx string
		if imp.Context != nil {
			ctx = imp.Context.Name
		}
		name := QualifiedName(imp.Name.Name, ctx)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		im := ImportMeta{Name: name, Span: imp.Span}
		if imp.Alias != nil {
			im.Alias = imp.Alias.Name
		}
		meta.Imports = append(meta.Imports, im)
	}
	return meta
}
