package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeMPV speaks enough of mpv's JSON-IPC protocol to exercise the client.
type fakeMPV struct {
	t        *testing.T
	path     string
	listener net.Listener

	mu         sync.Mutex
	commands   [][]interface{}
	eventConns []net.Conn
	handler    func(cmd []interface{}) (interface{}, string)

	observed chan string
}

func newFakeMPV(t *testing.T) *fakeMPV {
	dir, err := os.MkdirTemp("", "vp")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMPV{
		t:        t,
		path:     path,
		listener: listener,
		observed: make(chan string, 8),
		handler: func([]interface{}) (interface{}, string) {
			return nil, "success"
		},
	}
	t.Cleanup(func() { _ = listener.Close() })

	go f.serve()
	return f
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	// mpv broadcasts events to every client; the client must skip them.
	_, _ = conn.Write([]byte(`{"event":"idle"}` + "\n"))

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var cmd ipcCommand
		if err := json.Unmarshal(line, &cmd); err != nil {
			return
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		handler := f.handler
		f.mu.Unlock()

		var (
			data   interface{}
			status = "success"
		)
		if cmd.Command[0] == "observe_property" {
			f.mu.Lock()
			f.eventConns = append(f.eventConns, conn)
			f.mu.Unlock()
			f.observed <- cmd.Command[2].(string)
		} else {
			data, status = handler(cmd.Command)
		}

		reply, _ := json.Marshal(map[string]interface{}{
			"data":       data,
			"error":      status,
			"request_id": cmd.RequestID,
		})
		if _, err := conn.Write(append(reply, '\n')); err != nil {
			return
		}
	}
}

func (f *fakeMPV) setHandler(h func(cmd []interface{}) (interface{}, string)) {
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
}

func (f *fakeMPV) sent() [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]interface{}(nil), f.commands...)
}

func (f *fakeMPV) emit(event map[string]interface{}) {
	payload, _ := json.Marshal(event)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conn := range f.eventConns {
		_, _ = conn.Write(append(payload, '\n'))
	}
}

// attach returns an MPV client bound to the fake without spawning a process.
func (f *fakeMPV) attach() *MPV {
	m := NewMPV("mpv")
	m.socketPath = f.path
	m.exited = make(chan struct{})
	return m
}
