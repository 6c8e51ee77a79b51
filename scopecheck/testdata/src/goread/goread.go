// Package goread contains test fixtures for slot reads in new goroutines.
package goread

import (
	"fmt"

	"github.com/oliverbestmann/scoped"
	"golang.org/x/sync/errgroup"
)

var Request = scoped.Declare[string]("request")

var Other = scoped.Declare[int]("other")

// ===== SHOULD REPORT =====

func badGoStmtInsideScope() {
	value := "v"

	Request.Set(&value, func() {
		go func() {
			Request.With(func(value scoped.Option[string]) { // want `slot Request is read in a new goroutine and never observes the enclosing scope`
				fmt.Println(value.Get())
			})
		}()
	})
}

func badPackageLevelWith() {
	go func() {
		_ = scoped.With(Request, func(value scoped.Option[string]) bool { // want `slot Request is read in a new goroutine`
			return false
		})
	}()
}

func badDifferentSlotInstalled() {
	go func() {
		number := 1
		Other.Set(&number, func() {
			fmt.Println(Request.IsSet()) // want `slot Request is read in a new goroutine`
		})
	}()
}

func badErrgroup() {
	var g errgroup.Group

	g.Go(func() error {
		if Request.Depth() > 0 { // want `slot Request is read in a new goroutine`
			return nil
		}

		return nil
	})

	_ = g.Wait()
}

func badTryGo() {
	var g errgroup.Group

	g.TryGo(func() error {
		fmt.Println(Other.IsSet()) // want `slot Other is read in a new goroutine`
		return nil
	})
}

func badNestedGoroutine() {
	go func() {
		value := "v"
		Request.Set(&value, func() {
			fmt.Println(Request.IsSet())

			go func() {
				fmt.Println(Request.IsSet()) // want `slot Request is read in a new goroutine`
			}()
		})
	}()
}

func badReadInInstallArguments() {
	go func() {
		number := 1
		// the argument is evaluated before the scope becomes active
		Other.Set(&number, callback(Other.Depth())) // want `slot Other is read in a new goroutine`
	}()
}

func badGoStmtCallsWith() {
	value := "v"

	Request.Set(&value, func() {
		go Request.With(printRequest) // want `slot Request is read in a new goroutine`
	})
}

func badGoStmtCallsPackageWith() {
	go scoped.With(Other, func(value scoped.Option[int]) bool { // want `slot Other is read in a new goroutine`
		_, ok := value.Get()
		return ok
	})
}

// ===== SHOULD NOT REPORT =====

func goodGoStmtCallsInstall() {
	value := "v"

	// the read runs inside the scope installed on the new goroutine
	go Request.Set(&value, func() {
		Request.With(printRequest)
	})
}

func goodSameGoroutine() {
	value := "v"

	Request.Set(&value, func() {
		fmt.Println(Request.IsSet())
	})
}

func goodInstallInsideGoroutine() {
	go func() {
		value := "v"
		Request.Set(&value, func() {
			Request.With(func(value scoped.Option[string]) {
				fmt.Println(value.Get())
			})
		})
	}()
}

func goodSetValueInsideGoroutine() {
	go func() {
		scoped.SetValue(Request, "v", func() bool {
			return scoped.With(Request, func(value scoped.Option[string]) bool {
				_, ok := value.Get()
				return ok
			})
		})
	}()
}

func goodSetErrInsideErrgroup() {
	var g errgroup.Group

	g.Go(func() error {
		value := "v"
		return Request.SetErr(&value, func() error {
			fmt.Println(Request.Depth())
			return nil
		})
	})

	_ = g.Wait()
}

func goodNonReadingGoroutine() {
	go func() {
		fmt.Println(Request.Name())
	}()
}

func printRequest(value scoped.Option[string]) {
	fmt.Println(value.Get())
}

func callback(int) func() {
	return func() {}
}
