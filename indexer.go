// Copyright (c) 2022 Stephan Lukits. All rights reserved.
//  Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// indexer provides the suiteTestsIndexer-type whose only task it is to
// index the methods of suites in a source file by their appearance.

package unitrun

import (
	"go/ast"
	"go/parser"
	"go/token"
	"sync"
)

var indexer = suiteTestsIndexer{}

// suiteTestsIndexer provides *indices(fileName, suiteName)* which
// parses a file once and maps the methods of given suite to indices in
// order of their appearance.  Reflection provides methods only ordered
// by name.  indices is concurrency save.
type suiteTestsIndexer struct {
	mutex sync.Mutex
	//         file-name  suite-name method-name index
	_Indexer map[string]map[string]map[string]int
}

// indices returns the methods of given suite declared in given file
// mapped to their order of appearance.  The result is nil if the file
// can't be parsed.
func (i *suiteTestsIndexer) indices(file, suite string) map[string]int {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if i._Indexer == nil {
		i._Indexer = map[string]map[string]map[string]int{}
	}
	if _, ok := i._Indexer[file]; !ok {
		i._Indexer[file] = i._Parse(file)
	}
	return i._Indexer[file][suite]
}

func (i *suiteTestsIndexer) _Parse(file string) map[string]map[string]int {
	f, err := parser.ParseFile(
		token.NewFileSet(), file, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil
	}
	idx := map[string]map[string]int{}
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || !fd.Name.IsExported() {
			continue
		}
		for _, field := range fd.Recv.List {
			name, ok := i._IsIdent(field.Type)
			if !ok {
				continue
			}
			if idx[name] == nil {
				idx[name] = map[string]int{}
			}
			idx[name][fd.Name.Name] = len(idx[name])
		}
	}
	return idx
}

// _IsIdent helps investigating if a function's receiver field type
// refers to a suite by returning given field-type's identifier-name if
// there is any.
func (i *suiteTestsIndexer) _IsIdent(fldType ast.Expr) (string, bool) {
	if ident, ok := fldType.(*ast.Ident); ok {
		return ident.Name, true
	}

	starExpr, ok := fldType.(*ast.StarExpr)
	if !ok {
		return "", false
	}
	ident, ok := starExpr.X.(*ast.Ident)
	if !ok {
		return "", false
	}

	return ident.Name, true
}
