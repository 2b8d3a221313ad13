// Package delivery decouples where work runs from where its callbacks
// run. A [Loop] is a single designated goroutine that executes posted
// actions one at a time in the order they were posted, so consumers never
// observe concurrent callbacks.
//
// The loop may run on a goroutine of its own:
//
//	l := delivery.NewLoop()
//	l.Start()
//	defer l.Close()
//
// or adopt a goroutine the program already dedicates to callbacks, such
// as its main goroutine:
//
//	go work(l)
//	err := l.Run(ctx) // returns after Close or when ctx is done
package delivery
