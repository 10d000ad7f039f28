package resolve

// Logging helpers, grounded in grailbio/gql's log.go: position-prefixed
// wrappers over github.com/grailbio/base/log, so every line carries the
// call's span without every call site having to format it itself.

import (
	"fmt"

	"github.com/grailbio/base/log"

	"github.com/lumenscript/compiler/ident"
)

func debugf(span ident.Span, format string, args ...interface{}) {
	if log.At(log.Debug) {
		log.Output(2, log.Debug, span.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

func errorf(span ident.Span, format string, args ...interface{}) {
	log.Output(2, log.Error, span.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
}
