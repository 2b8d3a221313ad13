// Package deferred provides [Result], a single-assignment future whose
// value is produced on an [Executor] and consumed without blocking by
// chaining further stages, or by blocking with an optional timeout.
//
// # Producing a Result
//
//	r := deferred.SupplyAsync(exec, func(ctx context.Context) (int, error) {
//		return compute(ctx)
//	})
//
// # Chaining
//
// Go methods cannot introduce type parameters, so type-changing stages are
// package functions:
//
//	s := deferred.Then(r, strconv.Itoa)
//	done := s.Post(loop, render)
//
// A failed stage short-circuits every [Then], [Result.Accept] and
// [Result.Post] stage after it; only [Handle] and [Result.Exceptionally]
// observe the failure.
//
// # Retrieval
//
// [Result.Get] blocks until the result settles. [Result.GetTimeout] gives
// up with a [*TimeoutError] but leaves the underlying work running.
package deferred
