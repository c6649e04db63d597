// Package server implements the WebSocket transport for the presence relay.
//
// The Hub owns the set of open connections and provides the push primitives
// used by the relay core. Each Client runs a read pump that decodes inbound
// frames and hands them to a Dispatcher, and a write pump that drains the
// client's send buffer onto the socket.
package server
