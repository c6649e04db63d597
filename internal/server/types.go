package server

import (
	"strings"

	"github.com/Tyrowin/gochat-presence/internal/registry"
	"github.com/Tyrowin/gochat-presence/internal/router"
)

// Dispatcher receives the inbound operations decoded from client frames and
// the disconnect notification for every connection that ends.
type Dispatcher interface {
	Join(id registry.ConnID, username string)
	Leave(id registry.ConnID, username string) bool
	SendMessage(id registry.ConnID, receiverName, content string) router.Outcome
	Disconnect(id registry.ConnID)
}

type noopDispatcher struct{}

func (noopDispatcher) Join(registry.ConnID, string)       {}
func (noopDispatcher) Leave(registry.ConnID, string) bool { return false }
func (noopDispatcher) SendMessage(registry.ConnID, string, string) router.Outcome {
	return router.UnknownSender
}
func (noopDispatcher) Disconnect(registry.ConnID) {}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
