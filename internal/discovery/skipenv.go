package discovery

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// SkipEnvPrefix starts the names of the environment variables that skip test
// stages.
const SkipEnvPrefix = "SKIP_"

// SkipEnvCall is one os.Setenv call that sets a stage skip variable.
type SkipEnvCall struct {
	File string
	Line int
	Name string
}

// SkipEnvChecker finds uncommented os.Setenv("SKIP_...") calls in test
// sources. Those are meant for local iteration only and must not be committed.
type SkipEnvChecker struct{}

// NewSkipEnvChecker creates a new SkipEnvChecker
func NewSkipEnvChecker() *SkipEnvChecker {
	return &SkipEnvChecker{}
}

// Check parses filePath and returns its skip variable Setenv calls in source
// order.
func (c *SkipEnvChecker) Check(filePath string) ([]SkipEnvCall, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return c.inspect(fset, file), nil
}

// CheckSource is Check on in-memory source; filePath only labels the result.
func (c *SkipEnvChecker) CheckSource(filePath, source string) ([]SkipEnvCall, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, source, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return c.inspect(fset, file), nil
}

func (c *SkipEnvChecker) inspect(fset *token.FileSet, file *ast.File) []SkipEnvCall {
	var calls []SkipEnvCall
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		for _, call := range setenvCalls(fn.Body) {
			name, ok := skipEnvName(call)
			if !ok {
				continue
			}
			pos := fset.Position(call.Pos())
			calls = append(calls, SkipEnvCall{File: pos.Filename, Line: pos.Line, Name: name})
		}
	}
	return calls
}

// setenvCalls collects os.Setenv calls made as statements of body, following
// t.Run function literals and range bodies. Deferred calls and other nested
// statements are not followed.
func setenvCalls(body *ast.BlockStmt) []*ast.CallExpr {
	var calls []*ast.CallExpr
	for _, stmt := range body.List {
		switch s := stmt.(type) {
		case *ast.ExprStmt:
			call, ok := s.X.(*ast.CallExpr)
			if !ok {
				continue
			}
			switch {
			case isSelectorCall(call, "os", "Setenv"):
				calls = append(calls, call)
			case isSelectorCall(call, "t", "Run") && len(call.Args) == 2:
				if lit, ok := call.Args[1].(*ast.FuncLit); ok {
					calls = append(calls, setenvCalls(lit.Body)...)
				}
			}
		case *ast.RangeStmt:
			calls = append(calls, setenvCalls(s.Body)...)
		}
	}
	return calls
}

func isSelectorCall(call *ast.CallExpr, pkg, name string) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == pkg && sel.Sel.Name == name
}

// skipEnvName returns the variable name when call sets a skip variable from a
// string literal.
func skipEnvName(call *ast.CallExpr) (string, bool) {
	if len(call.Args) == 0 {
		return "", false
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	name, err := strconv.Unquote(lit.Value)
	if err != nil || !strings.HasPrefix(name, SkipEnvPrefix) {
		return "", false
	}
	return name, true
}
