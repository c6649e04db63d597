package router

import "time"

// Message is a single direct message. It lives only for the duration of one
// Route call and is never stored.
type Message struct {
	SenderName   string
	ReceiverName string
	Content      string
	Timestamp    time.Time
}

// NewMessage builds a Message stamped by now. A nil now uses time.Now.
func NewMessage(sender, receiver, content string, now func() time.Time) Message {
	if now == nil {
		now = time.Now
	}
	return Message{
		SenderName:   sender,
		ReceiverName: receiver,
		Content:      content,
		Timestamp:    now().UTC(),
	}
}
