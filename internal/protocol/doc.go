// Package protocol defines the JSON frames exchanged with clients over the
// WebSocket transport.
//
// Every frame is an envelope of the form
//
//	{"event": "sendMessage", "payload": {"receiverUsername": "bob", "content": "hi"}}
//
// Inbound events are join, leave and sendMessage. Outbound events are
// userConnected, userDisconnected, onlineUsersUpdated and messageReceived.
package protocol
