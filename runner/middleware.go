package runner

// Middleware wraps an Executor with cross-cutting behavior.
type Middleware func(Executor) Executor

// Chain composes middlewares. The first is outermost:
// Chain(a, b, c)(e) is a(b(c(e))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Executor) Executor {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}
