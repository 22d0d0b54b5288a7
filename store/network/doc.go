/*
Package network contains the websocket transport for the store.

The Server keeps the authoritative in-memory store and serves it over the websocket connections.
The Client mirrors the server store locally and implements the store.Store interface, thus the
tunables could be bound directly to the client:

	c, err := network.Dial(ctx, "ws://localhost:5810/nt", network.WithToken(token))
	if err != nil {
		...
	}
	defer c.Close()
	err = tunable.Setup(ctx, c, drive, "drive")

Each message is a protobuf encoded structpb.Struct with the 'op', 'key', 'type', 'value', 'origin' and 'id' fields
sent in a binary websocket frame.
*/
package network
