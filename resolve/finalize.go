package resolve

import (
	"github.com/lumenscript/compiler/ident"
)

// finalizeResult collects what the call finaliser (§4.4) computes beyond the
// lowered Expression itself, for the orchestrator in call.go to fold into
// the FunctionCall it constructs.
type finalizeResult struct {
	expr            Expression
	closureFallible bool
}

// finalizeCall implements §4.4: it unbinds any closure variables the
// validator bound (step 1, unconditionally, even though this function is
// only reached once closure validation has already succeeded), records
// whether the closure block is fallible, checks the closure block's return
// Kind against what the matched input declares, invokes the plugin's Compile
// with the external environment's ContextBag lent to it, rejects an
// abort-on-error marker on a call that cannot fail, and runs UpdateState.
// Folding the fallibility flags into the call's TypeDef is left to
// FunctionCall.TypeDefOf.
//
// It is grounded in grailbio/gql's panic.go Recover boundary and ai.go's
// combineTypes, generalized to an explicit error return: a panic inside the
// plugin's Compile is turned into an error by recoverCompile, and any
// Compile failure is reported as Compilation and propagated.
func finalizeCall(
	identSpan, callSpan ident.Span,
	fn Function,
	scope Scope,
	args *ArgumentList,
	cr closureResult,
	maybeFallibleArgs bool,
	abortOnError bool,
) (finalizeResult, error) {
	// Step 1: unbind, unconditionally and first, per §4.4.
	if cr.snapshot != nil {
		scope.Local.Restore(cr.snapshot, cr.bound)
	}

	closureFallible := false
	if cr.closure != nil {
		args.SetClosure(cr.closure)

		// Step 2.
		blockTD := cr.closure.Block.TypeDefOf(scope)
		closureFallible = blockTD.Fallible

		// Step 3.
		if !cr.closure.Input.Output.IsSuperset(blockTD.Kind) {
			return finalizeResult{}, newReturnTypeMismatch(callSpan, blockTD.Kind, cr.closure.Input.Output)
		}
	}

	// Step 4.
	bag := scope.External.SwapExternalContext(NewContextBag())
	compileCtx := &FunctionCompileContext{CallSpan: callSpan, ExternalContext: bag}
	expr, err := recoverCompile(fn, scope, compileCtx, args)
	scope.External.SwapExternalContext(compileCtx.ExternalContext)
	if err != nil {
		errorf(callSpan, "compile failed for %q: %v", fn.Identifier(), err)
		return finalizeResult{}, newCompilation(callSpan, err)
	}

	// Step 5. Only maybe_fallible_arguments and the compiled expr's own
	// fallibility gate the sanity check; closure_fallible folds into the
	// overall call fallibility in type_def (§4.5) but not here.
	if abortOnError && !maybeFallibleArgs && !expr.TypeDefOf(scope).Fallible {
		return finalizeResult{}, newAbortInfallible(identSpan)
	}

	// Step 6.
	if err := expr.UpdateState(scope.Local, scope.External); err != nil {
		return finalizeResult{}, newUpdateState(callSpan, err.Error())
	}

	return finalizeResult{expr: expr, closureFallible: closureFallible}, nil
}
