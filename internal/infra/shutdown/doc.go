// Package shutdown coordinates graceful termination of kv-server.
//
// Components register named hooks with OnShutdown. Wait blocks until
// SIGINT, SIGTERM, a call to Trigger, or cancellation of its context,
// then runs the hooks in reverse registration order under one deadline:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
