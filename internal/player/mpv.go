package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/hamidallah2/quran/internal/logging"
)

// Mpv drives an mpv process over its JSON IPC socket. mpv is started
// idle once and reused for every track, so switching surahs is fast.
type Mpv struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	conn       net.Conn
	writeMu    sync.Mutex // one IPC line on the wire at a time

	mu       sync.Mutex
	reqID    int
	pending  map[int]chan mpvResponse
	onTime   func(float64)
	onLoaded func() // one-shot
	timePos  float64
	duration float64
}

type mpvResponse struct {
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

// mpvMessage is one line off the IPC socket: either a command response
// (request_id set) or an asynchronous event.
type mpvMessage struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
}

// NewMpv creates an unstarted mpv adapter for the given binary.
func NewMpv(binary string) *Mpv {
	return &Mpv{
		binary:  binary,
		pending: make(map[int]chan mpvResponse),
	}
}

// Start launches mpv in idle mode and connects the IPC socket.
func (m *Mpv) Start() error {
	dir, err := os.MkdirTemp("", "quran-mpv")
	if err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	m.socketPath = filepath.Join(dir, "ipc.sock")

	m.cmd = exec.Command(m.binary,
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server="+m.socketPath,
	)
	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.binary, err)
	}

	// The socket appears shortly after mpv starts.
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			m.conn = conn
			break
		}
		if time.Now().After(deadline) {
			m.cmd.Process.Kill()
			return fmt.Errorf("connect to mpv ipc: %w", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	go m.readLoop()

	// Position and duration arrive as property-change events.
	if _, err := m.command("observe_property", 1, "time-pos"); err != nil {
		return fmt.Errorf("observe time-pos: %w", err)
	}
	if _, err := m.command("observe_property", 2, "duration"); err != nil {
		return fmt.Errorf("observe duration: %w", err)
	}
	return nil
}

// Close shuts the mpv process down.
func (m *Mpv) Close() {
	if m.conn != nil {
		m.command("quit")
		m.conn.Close()
	}
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Wait()
	}
	if m.socketPath != "" {
		os.RemoveAll(filepath.Dir(m.socketPath))
	}
}

// Load replaces the current source, paused.
func (m *Mpv) Load(url, title string) error {
	if _, err := m.command("set_property", "pause", true); err != nil {
		return err
	}
	if _, err := m.command("set_property", "force-media-title", title); err != nil {
		logging.Debug("setting media title failed", "error", err)
	}
	_, err := m.command("loadfile", url, "replace")
	return err
}

// Play resumes playback.
func (m *Mpv) Play() error {
	_, err := m.command("set_property", "pause", false)
	return err
}

// Pause pauses playback.
func (m *Mpv) Pause() error {
	_, err := m.command("set_property", "pause", true)
	return err
}

// Stop halts playback and unloads the source.
func (m *Mpv) Stop() error {
	_, err := m.command("stop")
	return err
}

// Seek jumps to an absolute position in seconds.
func (m *Mpv) Seek(seconds float64) error {
	_, err := m.command("seek", seconds, "absolute")
	return err
}

// CurrentTime reports the last observed playback position.
func (m *Mpv) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timePos
}

// Duration reports the last observed media duration.
func (m *Mpv) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// OnMetadataLoaded registers a one-shot callback for the next
// file-loaded event.
func (m *Mpv) OnMetadataLoaded(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLoaded = fn
}

// OnTimeUpdate registers the position callback.
func (m *Mpv) OnTimeUpdate(fn func(seconds float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTime = fn
}

// command sends one IPC command and waits for its response.
func (m *Mpv) command(args ...interface{}) (json.RawMessage, error) {
	if m.conn == nil {
		return nil, fmt.Errorf("mpv not started")
	}

	m.mu.Lock()
	m.reqID++
	id := m.reqID
	ch := make(chan mpvResponse, 1)
	m.pending[id] = ch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	payload, err := json.Marshal(map[string]interface{}{
		"command":    args,
		"request_id": id,
	})
	if err != nil {
		return nil, err
	}
	m.writeMu.Lock()
	_, err = m.conn.Write(append(payload, '\n'))
	m.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write ipc command: %w", err)
	}

	select {
	case resp := <-ch:
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", resp.Error)
		}
		return resp.Data, nil
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("mpv: command timed out")
	}
}

// readLoop dispatches IPC responses and events.
func (m *Mpv) readLoop() {
	scanner := bufio.NewScanner(m.conn)
	for scanner.Scan() {
		var ev mpvMessage
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}

		if ev.Event == "" {
			m.mu.Lock()
			if ch, ok := m.pending[ev.RequestID]; ok {
				ch <- mpvResponse{Error: ev.Error, RequestID: ev.RequestID, Data: ev.Data}
			}
			m.mu.Unlock()
			continue
		}

		switch ev.Event {
		case "file-loaded":
			m.mu.Lock()
			fn := m.onLoaded
			m.onLoaded = nil
			m.mu.Unlock()
			if fn != nil {
				fn()
			}
		case "property-change":
			var value float64
			if err := json.Unmarshal(ev.Data, &value); err != nil {
				continue // property became unavailable (null)
			}
			m.mu.Lock()
			var fn func(float64)
			switch ev.Name {
			case "time-pos":
				m.timePos = value
				fn = m.onTime
			case "duration":
				m.duration = value
			}
			m.mu.Unlock()
			if fn != nil {
				fn(value)
			}
		}
	}
}
