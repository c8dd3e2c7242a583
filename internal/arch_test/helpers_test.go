package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"
)

const internalPfx = "github.com/papapumpkin/selang/internal/"

// internalDirPath returns the internal/ directory this package lives in.
func internalDirPath(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Dir(filepath.Dir(thisFile))
}

// internalPackages lists the directories under internal/ holding Go code,
// arch_test excluded.
func internalPackages(t *testing.T) []string {
	t.Helper()
	dir := internalDirPath(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var pkgs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		if len(goFilesIn(t, filepath.Join(dir, e.Name()), false)) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	return pkgs
}

// goFilesIn returns the .go files of dir, sorted. Test files are included
// only when withTests is set.
func goFilesIn(t *testing.T, dir string, withTests bool) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading directory %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !withTests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// importPaths returns every import path of the non-test files of pkgDir,
// deduplicated and sorted.
func importPaths(t *testing.T, pkgDir string) []string {
	t.Helper()
	seen := make(map[string]bool)
	fset := token.NewFileSet()
	for _, f := range goFilesIn(t, pkgDir, false) {
		node, err := parser.ParseFile(fset, f, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing imports in %s: %v", f, err)
		}
		for _, imp := range node.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				t.Fatalf("%s: bad import %s", f, imp.Path.Value)
			}
			seen[path] = true
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// internalImports returns the internal packages pkgDir imports, by name.
func internalImports(t *testing.T, pkgDir string) []string {
	t.Helper()
	var out []string
	for _, p := range importPaths(t, pkgDir) {
		if rel, ok := strings.CutPrefix(p, internalPfx); ok {
			out = append(out, strings.SplitN(rel, "/", 2)[0])
		}
	}
	return out
}

// lineCount returns the number of lines of filePath, counting an
// unterminated last line.
func lineCount(t *testing.T, filePath string) int {
	t.Helper()
	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("reading %s: %v", filePath, err)
	}
	if len(data) == 0 {
		return 0
	}
	n := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// packageVar is one name of a package-level var declaration.
type packageVar struct {
	Name  string
	Type  ast.Expr
	Value ast.Expr
}

// packageVars returns the package-level vars declared in file, which is
// parsed from src when src is non-nil.
func packageVars(t *testing.T, file string, src any) []packageVar {
	t.Helper()
	node, err := parser.ParseFile(token.NewFileSet(), file, src, 0)
	if err != nil {
		t.Fatalf("parsing %s: %v", file, err)
	}
	var vars []packageVar
	for _, decl := range node.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, name := range vs.Names {
				v := packageVar{Name: name.Name, Type: vs.Type}
				if i < len(vs.Values) {
					v.Value = vs.Values[i]
				}
				vars = append(vars, v)
			}
		}
	}
	return vars
}
