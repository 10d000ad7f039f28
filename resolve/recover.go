package resolve

import (
	"runtime/debug"

	"github.com/grailbio/base/errors"
)

// recoverCompile runs a Function's Compile hook, turning any panic it raises
// into an error instead of letting it unwind through the resolver. It is
// grounded in grailbio/gql's panic.go Recover: a plugin's compile hook is
// foreign code the resolver does not control, so §7's "never recovered
// inside this core" policy governs resolution failures the core itself
// detects, not defensive isolation from a third-party panic — that boundary
// still needs to exist somewhere, and this is where grailbio/gql puts it.
func recoverCompile(fn Function, scope Scope, ctx *FunctionCompileContext, args *ArgumentList) (expr Expression, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.E("panic compiling %q: %v: %v", fn.Identifier(), e, string(debug.Stack()))
		}
	}()
	expr, err = fn.Compile(scope, ctx, args)
	return
}
