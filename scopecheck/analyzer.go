// Package scopecheck provides a go/analysis based analyzer for detecting
// slot reads that can never observe the scope they appear to be nested in.
//
// Slot values of github.com/oliverbestmann/scoped are local to the
// goroutine that installed them. A function literal started with a go
// statement, errgroup.Group.Go or sync.WaitGroup.Go always sees every slot
// empty, unless it installs a value itself. The same holds for a read
// started directly, as in go slot.With(fn).
//
// Named functions passed to go or a spawner are not followed.
package scopecheck

import (
	"errors"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const scopedPath = "github.com/oliverbestmann/scoped"

// Analyzer is the analyzer for scopecheck.
var Analyzer = &analysis.Analyzer{
	Name:     "scopecheck",
	Doc:      "reports slot reads inside new goroutines that never observe the enclosing scope",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

// spawners are functions running their function literal argument on a new
// goroutine, keyed by package path, receiver type and method name.
var spawners = map[string]bool{
	"golang.org/x/sync/errgroup.Group.Go":    true,
	"golang.org/x/sync/errgroup.Group.TryGo": true,
	"sync.WaitGroup.Go":                      true,
}

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	nodeFilter := []ast.Node{
		(*ast.GoStmt)(nil),
		(*ast.CallExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.GoStmt:
			if lit, ok := ast.Unparen(node.Call.Fun).(*ast.FuncLit); ok {
				checkGoroutine(pass, lit)
				return
			}

			// go slot.With(fn) runs the read itself on the new goroutine
			if use, ok := classify(pass, node.Call); ok && use.Kind == useRead {
				reportRead(pass, node.Call, use)
			}

		case *ast.CallExpr:
			if !isSpawnerCall(pass, node) {
				return
			}

			for _, arg := range node.Args {
				if lit, ok := ast.Unparen(arg).(*ast.FuncLit); ok {
					checkGoroutine(pass, lit)
				}
			}
		}
	})

	return nil, nil
}

// checkGoroutine reports every slot read in the body of lit that is not
// nested inside a scope for the same slot installed within lit.
func checkGoroutine(pass *analysis.Pass, lit *ast.FuncLit) {
	w := walker{pass: pass, installed: map[any]int{}}
	w.walk(lit.Body)
}

type walker struct {
	pass *analysis.Pass

	// number of enclosing scopes per slot
	installed map[any]int
}

func (w *walker) walk(node ast.Node) {
	ast.Inspect(node, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.GoStmt:
			// checked on its own, starts with empty slots again
			return false

		case *ast.CallExpr:
			if isSpawnerCall(w.pass, node) {
				return false
			}

			use, ok := classify(w.pass, node)
			if !ok {
				return true
			}

			key := w.slotKey(use.Slot)

			switch use.Kind {
			case useRead:
				if w.installed[key] == 0 {
					reportRead(w.pass, node, use)
				}

				return true

			case useInstall:
				// arguments are evaluated outside the new scope
				w.walk(node.Fun)
				for idx, arg := range node.Args {
					if idx != use.Callback {
						w.walk(arg)
					}
				}

				if use.Callback >= len(node.Args) {
					return false
				}

				// only the body of a literal runs inside the scope
				callback := node.Args[use.Callback]
				if lit, ok := ast.Unparen(callback).(*ast.FuncLit); ok {
					w.installed[key] += 1
					w.walk(lit.Body)
					w.installed[key] -= 1
				} else {
					w.walk(callback)
				}

				return false
			}
		}

		return true
	})
}

// slotKey identifies the slot an expression refers to, preferring the
// declared object over its spelling.
func (w *walker) slotKey(expr ast.Expr) any {
	switch expr := ast.Unparen(expr).(type) {
	case *ast.Ident:
		if obj := w.pass.TypesInfo.ObjectOf(expr); obj != nil {
			return obj
		}

	case *ast.SelectorExpr:
		if obj := w.pass.TypesInfo.ObjectOf(expr.Sel); obj != nil {
			return obj
		}
	}

	return types.ExprString(expr)
}

func reportRead(pass *analysis.Pass, call *ast.CallExpr, use slotUse) {
	pass.Reportf(call.Pos(),
		"slot %s is read in a new goroutine and never observes the enclosing scope",
		types.ExprString(use.Slot))
}

func isSpawnerCall(pass *analysis.Pass, call *ast.CallExpr) bool {
	fn := calledFunc(pass, call)
	if fn == nil || fn.Pkg() == nil {
		return false
	}

	recv := receiverName(fn)
	if recv == "" {
		return false
	}

	return spawners[fn.Pkg().Path()+"."+recv+"."+fn.Name()]
}
