package protocol

import "time"

// Inbound event names.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventSendMessage = "sendMessage"
)

// Outbound event names.
const (
	EventUserConnected      = "userConnected"
	EventUserDisconnected   = "userDisconnected"
	EventOnlineUsersUpdated = "onlineUsersUpdated"
	EventMessageReceived    = "messageReceived"
)

// JoinPayload is sent by a client to register a display name.
type JoinPayload struct {
	Username string `json:"username"`
}

// LeavePayload is sent by a client that is signing off.
type LeavePayload struct {
	Username string `json:"username"`
}

// SendMessagePayload asks the relay to deliver content to another user.
type SendMessagePayload struct {
	ReceiverUsername string `json:"receiverUsername"`
	Content          string `json:"content"`
}

// UserPayload carries the name in userConnected and userDisconnected.
type UserPayload struct {
	Username string `json:"username"`
}

// RosterPayload carries the full list of online users.
type RosterPayload struct {
	Usernames []string `json:"usernames"`
}

// MessageReceivedPayload is delivered to the receiver of a direct message.
type MessageReceivedPayload struct {
	SenderUsername string    `json:"senderUsername"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}
