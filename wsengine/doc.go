// Package wsengine carries the marionette engine contract over a websocket.
//
// A [Server] wraps any [marionette.Engine] and answers JSON requests, one
// per engine method. A [Client] implements [marionette.Engine] by sending
// those requests, so a [marionette.Runtime] can drive a host running in
// another process:
//
//	client, err := wsengine.Dial(ctx, "ws://localhost:7311/engine", logger)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	rt := marionette.New(client)
//	rt.Init(ready, 800, 600, "game")
//	for {
//		client.Poll()
//		rt.Update(frame)
//	}
//
// Engine callbacks (ready, manifest loaded, animation steps) travel back as
// events. The client queues them and runs them from Poll, on the caller's
// goroutine, so the runtime never sees concurrent callbacks.
//
// # Wire format
//
// Requests are {"id","method","args"} where method is the engine method name
// and args its positional arguments. Callback arguments are replaced by a
// reference string. The server answers with {"response":{"id","result",
// "error"}} or pushes {"event":{"kind","ref","value"}}.
package wsengine
