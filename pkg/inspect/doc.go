// Package inspect serves a live view of a binding engine over HTTP.
//
// The inspector exposes the engine's registry snapshot as JSON, the
// Prometheus metrics of the engine and of the inspector itself, and a
// websocket stream of engine activity (binds, installs, releases and
// failures).
//
//	hub := inspect.NewHub(logger)
//	eng := binding.New(binding.WithActivity(hub.Publish))
//	srv := inspect.New(eng, hub)
//	err := srv.ListenAndServe(ctx, "localhost:7070")
package inspect
