// Package notify implements the tenant-scoped realtime notification core:
// the subscription registry, the event envelope, the fan-out dispatcher, and
// the session lifecycle manager. Transports (websocket, SSE) register
// sessions here and mutation handlers publish envelopes after their writes
// commit; the package itself performs no I/O beyond calling Session.Send.
//
// Example:
//
//	reg := notify.NewRegistry()
//	disp := notify.NewDispatcher(reg, logger)
//	mgr := notify.NewManager(reg, logger)
//	mgr.Connect(sess)
//	_ = mgr.Subscribe(sess, 42)
//	env, _ := notify.NewEnvelope(notify.KindServiceUpdate, 42, notify.ServicePayload{
//	    ID: 7, Name: "API", Status: "degraded", Action: notify.ActionUpdated,
//	})
//	_ = disp.Publish(ctx, env)
package notify
