package scopecheck

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

type useKind int

const (
	useRead useKind = iota + 1
	useInstall
)

// slotUse describes a call into the scoped package involving a slot.
type slotUse struct {
	Kind useKind

	// expression evaluating to the slot
	Slot ast.Expr

	// index of the callback argument running inside the new scope
	Callback int
}

// classify recognizes reads and installs of slots:
//
//	scoped.With(slot, fn)        slot.With(fn)   slot.IsSet()   slot.Depth()
//	scoped.Set(slot, ref, fn)    scoped.SetValue(slot, value, fn)
//	slot.Set(ref, fn)            slot.SetErr(ref, fn)
func classify(pass *analysis.Pass, call *ast.CallExpr) (slotUse, bool) {
	fn := calledFunc(pass, call)
	if fn == nil || fn.Pkg() == nil || fn.Pkg().Path() != scopedPath {
		return slotUse{}, false
	}

	if recv := receiverName(fn); recv != "" {
		if recv != "Slot" {
			return slotUse{}, false
		}

		sel, ok := calleeExpr(call).(*ast.SelectorExpr)
		if !ok {
			return slotUse{}, false
		}

		switch fn.Name() {
		case "With", "IsSet", "Depth":
			return slotUse{Kind: useRead, Slot: sel.X}, true

		case "Set", "SetErr":
			return slotUse{Kind: useInstall, Slot: sel.X, Callback: 1}, true
		}

		return slotUse{}, false
	}

	if len(call.Args) == 0 {
		return slotUse{}, false
	}

	switch fn.Name() {
	case "With":
		return slotUse{Kind: useRead, Slot: call.Args[0]}, true

	case "Set", "SetValue":
		return slotUse{Kind: useInstall, Slot: call.Args[0], Callback: 2}, true
	}

	return slotUse{}, false
}

// calleeExpr strips parentheses and explicit type arguments from the
// called expression.
func calleeExpr(call *ast.CallExpr) ast.Expr {
	fun := ast.Unparen(call.Fun)

	switch expr := fun.(type) {
	case *ast.IndexExpr:
		return ast.Unparen(expr.X)
	case *ast.IndexListExpr:
		return ast.Unparen(expr.X)
	}

	return fun
}

func calledFunc(pass *analysis.Pass, call *ast.CallExpr) *types.Func {
	var ident *ast.Ident

	switch expr := calleeExpr(call).(type) {
	case *ast.Ident:
		ident = expr
	case *ast.SelectorExpr:
		ident = expr.Sel
	default:
		return nil
	}

	fn, _ := pass.TypesInfo.Uses[ident].(*types.Func)
	return fn
}

// receiverName returns the name of the named receiver type of a method, or
// an empty string for plain functions.
func receiverName(fn *types.Func) string {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return ""
	}

	recv := sig.Recv().Type()
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = ptr.Elem()
	}

	named, ok := recv.(*types.Named)
	if !ok {
		return ""
	}

	return named.Obj().Name()
}
