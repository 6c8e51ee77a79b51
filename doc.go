// Package scoped makes a reference visible to code running on the same
// goroutine for the dynamic extent of a call, without passing it through
// every function in between.
//
// A slot is declared once, usually as a package level variable:
//
//	var Request = scoped.Declare[*http.Request]("request")
//
// Set installs a reference for the duration of a callback and restores the
// previous value when the callback returns, panics or calls runtime.Goexit:
//
//	scoped.Set(Request, &req, func() error {
//	    return library.Run(callback)
//	})
//
// Code reached from inside the callback reads the slot with With. A slot
// without an active scope is not an error, the callback simply receives an
// empty Option:
//
//	func callback() {
//	    Request.With(func(req scoped.Option[*http.Request]) {
//	        if r, ok := req.Get(); ok {
//	            log.Println((*r).URL)
//	        }
//	    })
//	}
//
// # Goroutines
//
// Slot values are local to the goroutine that installed them. A goroutine
// started inside a scope sees every slot empty. The scopecheck analyzer in
// this module reports such reads.
//
// # References
//
// The slot never owns or copies the referenced value. The pointer handed to
// a With callback must not be retained after the callback returns.
package scoped
