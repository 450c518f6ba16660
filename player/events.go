package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/vplay-cli/vplay/log"
)

// EventCallback is the function signature for mpv event notifications.
// For property changes name is the property; for other events it is the event name and data is nil.
type EventCallback func(name string, data interface{})

// EventListener keeps a persistent IPC connection open and forwards mpv events.
// mpv only delivers observed properties to the connection that subscribed, so the
// observe_property requests are written on the same connection that is read.
type EventListener struct {
	socketPath string
	properties []string
	callback   EventCallback

	mu        sync.Mutex
	conn      net.Conn
	stopCh    chan struct{}
	listening bool
}

// NewEventListener creates a listener observing properties on the given socket.
func NewEventListener(socketPath string, callback EventCallback, properties ...string) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		properties: properties,
		callback:   callback,
	}
}

// Start subscribes to the configured properties and begins the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range el.properties {
		payload, err := json.Marshal(ipcCommand{
			Command:   []interface{}{"observe_property", i + 1, name},
			RequestID: requestSeq.Add(1),
		})
		if err != nil {
			conn.Close()
			return fmt.Errorf("marshal observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.stopCh = make(chan struct{})
	el.listening = true

	go el.readLoop(conn, el.stopCh)

	log.Infof("mpv event listener started on %s (observing: %v)", el.socketPath, el.properties)
	return nil
}

// Stop terminates the listener. Closing the connection unblocks the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	_ = el.conn.Close()
	el.listening = false
}

func (el *EventListener) readLoop(conn net.Conn, stopCh chan struct{}) {
	reader := bufio.NewReader(conn)

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 && err == nil {
			el.processEvent(line)
		}
		if err != nil {
			select {
			case <-stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
				_ = conn.Close()
				el.mu.Lock()
				el.listening = false
				el.mu.Unlock()
			}
			return
		}
	}
}

// processEvent parses and dispatches a single mpv event line. Command replies are ignored.
func (el *EventListener) processEvent(line []byte) {
	var event struct {
		Event string      `json:"event"`
		Name  string      `json:"name"`
		Data  interface{} `json:"data"`
	}
	if err := json.Unmarshal(line, &event); err != nil || event.Event == "" || el.callback == nil {
		return
	}

	if event.Event == "property-change" {
		if event.Name != "" {
			el.callback(event.Name, event.Data)
		}
		return
	}

	el.callback(event.Event, nil)
}
