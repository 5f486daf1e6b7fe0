package qmp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/jeeftor/qmp-macro/internal/logging"
)

// Client represents a QMP client connection
type Client struct {
	conn       net.Conn
	vmid       string
	reader     *bufio.Reader
	socketPath string
	logger     *logging.ContextualLogger

	// QMP is strictly request/response; one command in flight at a time
	mu sync.Mutex

	// screen size used to scale absolute pointer moves; probed lazily
	width, height int
	sizeFixed     bool
}

// Command represents a QMP command
type Command struct {
	Execute   string      `json:"execute"`
	Arguments interface{} `json:"arguments,omitempty"`
	ID        string      `json:"id,omitempty"`
}

// Response represents a QMP response
type Response struct {
	Return interface{} `json:"return,omitempty"`
	Error  *Error      `json:"error,omitempty"`
	ID     string      `json:"id,omitempty"`
	Event  string      `json:"event,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	QMP    interface{} `json:"QMP,omitempty"`
}

// Error represents a QMP error
type Error struct {
	Class string `json:"class"`
	Desc  string `json:"desc"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("QMP error: %s: %s", e.Class, e.Desc)
}

// New creates a new QMP client
func New(vmid string) *Client {
	return &Client{
		vmid:   vmid,
		logger: logging.NewContextualLogger(vmid, "qmp"),
	}
}

// NewWithSocketPath creates a new QMP client with a custom socket path
func NewWithSocketPath(vmid string, socketPath string) *Client {
	c := New(vmid)
	c.socketPath = socketPath
	return c
}

// SocketPath returns the socket the client connects to
func (q *Client) SocketPath() string {
	if q.socketPath != "" {
		return q.socketPath
	}
	return SocketPathFor(q.vmid)
}

// Connect establishes a connection to the QMP socket
func (q *Client) Connect() error {
	socketPath := q.SocketPath()

	q.logger.Debug("Connecting to QMP socket", "path", socketPath)
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to QMP socket: %w", err)
	}
	q.conn = conn
	q.reader = bufio.NewReader(conn)

	// Read the greeting message
	var greeting Response
	if err := q.readJSON(&greeting); err != nil {
		q.conn.Close()
		q.conn = nil
		return fmt.Errorf("failed to read greeting: %w", err)
	}
	if greeting.QMP == nil {
		q.conn.Close()
		q.conn = nil
		return ErrInvalidResponse("missing QMP greeting")
	}
	logging.LogResponse(greeting)

	// Send qmp_capabilities to enable commands
	if _, err := q.Execute("qmp_capabilities", nil); err != nil {
		q.conn.Close()
		q.conn = nil
		return fmt.Errorf("failed to negotiate capabilities: %w", err)
	}

	q.logger.Info("Connected to QMP socket", "path", socketPath)
	return nil
}

// Close closes the QMP connection
func (q *Client) Close() error {
	if q.conn != nil {
		q.logger.Debug("Closing QMP connection")
		err := q.conn.Close()
		q.conn = nil
		return err
	}
	return nil
}

// Execute sends a command and returns its "return" payload
func (q *Client) Execute(name string, args interface{}) (interface{}, error) {
	resp, err := q.sendCommand(Command{Execute: name, Arguments: args})
	if err != nil {
		return nil, err
	}
	return resp.Return, nil
}

// sendCommand sends a QMP command and returns the response.
// Asynchronous events received before the response are logged and skipped.
func (q *Client) sendCommand(cmd Command) (*Response, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.conn == nil {
		return nil, ErrNotConnected
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	logging.LogCommand(cmd.Execute, cmd.Arguments)
	q.logger.Debug("Raw JSON sent", "json", string(data))
	if _, err := q.conn.Write(append(data, '\n')); err != nil {
		return nil, ErrCommandFailed(cmd.Execute, err)
	}

	for {
		var resp Response
		if err := q.readJSON(&resp); err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.Event != "" {
			q.logger.Debug("Skipping QMP event", "event", resp.Event)
			continue
		}
		logging.LogResponse(resp)

		if resp.Error != nil {
			return nil, ErrCommandFailed(cmd.Execute, resp.Error)
		}
		return &resp, nil
	}
}

// readJSON reads a JSON object from the QMP socket
func (q *Client) readJSON(v interface{}) error {
	var fullLine []byte
	for {
		line, isPrefix, err := q.reader.ReadLine()
		if err != nil {
			return err
		}
		fullLine = append(fullLine, line...)
		if !isPrefix {
			break
		}
	}

	q.logger.Debug("Raw JSON received", "json", string(fullLine))
	return json.Unmarshal(fullLine, v)
}

// QueryStatus returns the current VM run state
func (q *Client) QueryStatus() (*Status, error) {
	ret, err := q.Execute("query-status", nil)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(ret)
	if err != nil {
		return nil, ErrInvalidResponse(err.Error())
	}
	var status Status
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, ErrInvalidResponse(err.Error())
	}
	return &status, nil
}

// SendInputEvents delivers a batch of input events in one input-send-event command
func (q *Client) SendInputEvents(events ...InputEvent) error {
	if len(events) == 0 {
		return nil
	}
	_, err := q.Execute("input-send-event", InputEventArgs{Events: events})
	return err
}

// ScreenDump asks QEMU to write the current screen as PPM to filename.
// With a remoteTempPath the dump is left on the QEMU host and filename is ignored.
func (q *Client) ScreenDump(filename string, remoteTempPath string) error {
	target := filename
	if remoteTempPath != "" {
		target = remoteTempPath
		q.logger.Debug("Using remote temporary path for screenshot", "path", target)
	}

	if _, err := q.Execute("screendump", Screenshot{Filename: target}); err != nil {
		return err
	}

	if remoteTempPath != "" {
		logging.UserInfof("Screenshot saved on remote server: %s", remoteTempPath)
		return nil
	}
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("screendump did not produce %s: %w", filename, err)
	}
	return nil
}
