package notify

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/briarwood/wsmgr/internal/events"
)

func sendFramed(t *testing.T, conn net.Conn, msg Message) {
	t.Helper()
	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		t.Fatalf("write length failed: %v", err)
	}
	if _, err := conn.Write(body); err != nil {
		t.Fatalf("write body failed: %v", err)
	}
}

func startListener(t *testing.T) (string, chan events.AppEvent, func()) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "notify.sock")
	out := make(chan events.AppEvent, 16)
	ctx, cancel := context.WithCancel(context.Background())

	l := NewListener(path)
	errCh := make(chan error, 1)
	go func() { errCh <- l.ListenAndServe(ctx, out) }()

	// Give the listener a moment to bind.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("unix", path); err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	return path, out, cancel
}

func TestRegisterRoundTrip(t *testing.T) {
	path, out, cancel := startListener(t)
	defer cancel()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	sendFramed(t, conn, Message{Type: TypeRegister, SessionID: "abc123", ProjectPath: "/tmp/proj", Tool: "claude"})

	select {
	case ev := <-out:
		if ev.Kind != events.KindSessionRegister {
			t.Fatalf("expected KindSessionRegister, got %v", ev.Kind)
		}
		if ev.Session.ExternalID != "abc123" || ev.Session.ProjectPath != "/tmp/proj" {
			t.Errorf("unexpected register payload: %+v", ev.Session)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for register event")
	}
}

func TestTabFocusRoundTrip(t *testing.T) {
	path, out, cancel := startListener(t)
	defer cancel()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	sendFramed(t, conn, Message{Type: TypeTabFocus, TabName: "repo/feature-x"})

	select {
	case ev := <-out:
		if ev.Kind != events.KindTabFocus {
			t.Fatalf("expected KindTabFocus, got %v", ev.Kind)
		}
		if ev.TabFocus.TabName != "repo/feature-x" {
			t.Errorf("unexpected tab name: %q", ev.TabFocus.TabName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tab focus event")
	}
}

func TestOversizedMessageDropsConnectionOnly(t *testing.T) {
	path, out, cancel := startListener(t)
	defer cancel()

	bad, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], maxMessageBody+1)
	bad.Write(lenBuf[:])
	bad.Close()

	good, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer good.Close()
	sendFramed(t, good, Message{Type: TypeUnregister, SessionID: "still-works"})

	select {
	case ev := <-out:
		if ev.Kind != events.KindSessionRemove || ev.Remove.ExternalID != "still-works" {
			t.Fatalf("expected the second connection's message to still be processed, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out: oversized message on one connection should not affect others")
	}
}

func TestIdentifierReusesSlotForTabFocus(t *testing.T) {
	m := Message{Type: TypeTabFocus, TabName: "repo/main"}
	if m.Identifier() != "repo/main" {
		t.Errorf("expected Identifier() to return tab name for tab_focus, got %q", m.Identifier())
	}

	m2 := Message{Type: TypeStatus, SessionID: "sess-1"}
	if m2.Identifier() != "sess-1" {
		t.Errorf("expected Identifier() to return session id for status, got %q", m2.Identifier())
	}
}
