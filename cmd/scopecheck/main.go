// Command scopecheck reports slot reads in new goroutines that never
// observe the enclosing scope.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/oliverbestmann/scoped/scopecheck"
)

func main() {
	singlechecker.Main(scopecheck.Analyzer)
}
