package notify

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/logging"
)

var log = logging.For("notify")

// maxMessageBody bounds the length-prefixed body size accepted from a
// connection.
const maxMessageBody = 1024 * 1024

// Listener accepts notify connections on a Unix domain socket and turns
// each well-formed message into an events.AppEvent.
type Listener struct {
	path string
	ln   net.Listener
}

// NewListener constructs a Listener bound to path. Call ListenAndServe to
// start accepting connections.
func NewListener(path string) *Listener {
	return &Listener{path: path}
}

// ListenAndServe removes a stale socket file (if any), creates the parent
// directory, binds the socket, and accepts connections until ctx is
// cancelled. Each accepted connection is handled in its own goroutine;
// a malformed message drops only that connection.
func (l *Listener) ListenAndServe(ctx context.Context, out chan<- events.AppEvent) error {
	if err := os.RemoveAll(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	ln, err := net.Listen("unix", l.path)
	if err != nil {
		return err
	}
	l.ln = ln

	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				os.Remove(l.path)
				return nil
			}
			log.WithError(err).Warn("failed to accept notify connection")
			continue
		}
		go l.handleConn(conn, out)
	}
}

func (l *Listener) handleConn(conn net.Conn, out chan<- events.AppEvent) {
	defer conn.Close()

	var lenBuf [4]byte
	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxMessageBody {
		log.WithField("bytes", n).Warn("notify message exceeds size limit, dropping connection")
		return
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(conn, body); err != nil {
		return
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		log.WithError(err).Warn("malformed notify message, dropping connection")
		return
	}

	ev, ok := messageToEvent(msg)
	if !ok {
		log.WithField("type", msg.Type).Warn("unrecognised notify message type")
		return
	}
	out <- ev
}

func messageToEvent(msg Message) (events.AppEvent, bool) {
	switch msg.Type {
	case TypeRegister:
		return events.NewSessionRegister(events.SessionStatusPayload{
			ExternalID:  msg.SessionID,
			ProjectPath: msg.ProjectPath,
			Tool:        msg.Tool,
		}), true
	case TypeStatus:
		return events.NewSessionStatus(events.SessionStatusPayload{
			ExternalID: msg.SessionID,
			Status:     msg.Status,
			Summary:    msg.Message,
		}), true
	case TypeUnregister:
		return events.NewSessionRemove(msg.SessionID), true
	case TypeTabFocus:
		return events.NewTabFocus(msg.TabName), true
	default:
		return events.AppEvent{}, false
	}
}
