package websocket

import (
	"github.com/gorilla/websocket"
)

// gorillaConn adapts *websocket.Conn to Connection
type gorillaConn struct {
	*websocket.Conn
}

// RemoteAddr returns the peer address as a string
func (c gorillaConn) RemoteAddr() string {
	return c.Conn.RemoteAddr().String()
}
