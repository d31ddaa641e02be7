// Package egret is a small, composable micro web framework.
//
// egret layers URL-pattern routing, asynchronous response composition,
// sub-resource delegation, and a structured error pipeline on top of
// Go's net/http. A handler registered with an Engine may return raw
// bytes, text, a renderable template, a delegating SubResource, an
// Eventual, or an error — the dispatch Engine drives whichever of those
// to a finished HTTP response exactly once.
//
// Example:
//
//	e := egret.New()
//	e.Route("/hello/<string:name>", nil, false, true, func(c *egret.Context) egret.Result {
//		return egret.Text("hello, " + c.Param("name"))
//	})
//	http.ListenAndServe(":8080", e)
//
// URL patterns contain literal segments and typed placeholders written
// <converter:name>. Converters: string (default, no slashes), int
// (non-negative decimal), path (greedy, may contain slashes).
//
// Examples:
//
//	"/user/<string:name>" matches "/user/jsmith" but not "/user/jsmith/info"
//	"/user/<string:name>/info" matches "/user/jsmith/info"
//	"/page/<path:rest>" matches "/page/intro/latest"
//	"/date/<int:yyyy>/<int:mm>/<int:dd>" matches "/date/2017/04/01"
package egret
