package executor

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/VoxDroid/cmdpal/internal/registry"
)

// OutputLimit is how much recent output each terminal keeps.
const OutputLimit = 64 << 10

// drainTimeout bounds how long a terminal waits for buffered pty output
// after its shell exits.
const drainTimeout = 250 * time.Millisecond

// Options configure a PTYHost.
type Options struct {
	// Shell overrides the interactive shell ("pwsh", "zsh", a path).
	Shell string
	// Output receives the output of the foreground terminal.
	Output io.Writer
	// Env is appended to the process environment of every terminal.
	Env        []string
	Rows, Cols uint16
	Logger     *slog.Logger
}

// PTYHost starts shells on pseudo terminals and implements registry.Host.
type PTYHost struct {
	shell string
	args  []string
	opts  Options
	log   *slog.Logger

	mu         sync.Mutex
	live       []*PTYTerminal
	foreground *PTYTerminal
	subs       map[int]func(registry.Terminal)
	nextSub    int
}

var _ registry.Host = (*PTYHost)(nil)

// NewPTYHost returns a host using opts.
func NewPTYHost(opts Options) *PTYHost {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	shell, args := interactiveShell(opts.Shell)
	return &PTYHost{
		shell: shell,
		args:  args,
		opts:  opts,
		log:   logger,
		subs:  map[int]func(registry.Terminal){},
	}
}

// CreateTerminal starts the host shell on a new pty.
func (h *PTYHost) CreateTerminal(opts registry.TerminalOptions) (registry.Terminal, error) {
	if err := validateShell(h.shell); err != nil {
		return nil, err
	}
	cmd := exec.Command(h.shell, h.args...)
	cmd.Dir = opts.Cwd
	cmd.Env = append(append(os.Environ(), h.opts.Env...), "CMDPAL_TERMINAL="+opts.Name)

	ptmx, err := startPTY(cmd, h.opts.Rows, h.opts.Cols)
	if err != nil {
		return nil, err
	}
	t := &PTYTerminal{
		host:     h,
		name:     opts.Name,
		cmd:      cmd,
		ptmx:     ptmx,
		buf:      newTail(OutputLimit),
		readDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
	h.mu.Lock()
	h.live = append(h.live, t)
	h.mu.Unlock()
	h.log.Debug("terminal started", "name", opts.Name, "shell", h.shell, "pid", cmd.Process.Pid)

	go t.readLoop()
	go t.waitLoop()
	return t, nil
}

// Terminals returns the terminals whose shells are still running.
func (h *PTYHost) Terminals() []registry.Terminal {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]registry.Terminal, 0, len(h.live))
	for _, t := range h.live {
		out = append(out, t)
	}
	return out
}

// OnDidCloseTerminal registers fn to run once for every terminal that closes.
func (h *PTYHost) OnDidCloseTerminal(fn func(registry.Terminal)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Foreground returns the terminal most recently shown, if it is alive.
func (h *PTYHost) Foreground() (*PTYTerminal, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.foreground, h.foreground != nil
}

func (h *PTYHost) show(t *PTYTerminal) {
	h.mu.Lock()
	for _, l := range h.live {
		if l == t {
			h.foreground = t
			break
		}
	}
	h.mu.Unlock()
}

func (h *PTYHost) forward(t *PTYTerminal, p []byte) {
	h.mu.Lock()
	fg := h.foreground == t
	h.mu.Unlock()
	if fg && h.opts.Output != nil {
		_, _ = h.opts.Output.Write(p)
	}
}

func (h *PTYHost) closed(t *PTYTerminal) {
	h.mu.Lock()
	for i, l := range h.live {
		if l == t {
			h.live = append(h.live[:i], h.live[i+1:]...)
			break
		}
	}
	if h.foreground == t {
		h.foreground = nil
	}
	subs := make([]func(registry.Terminal), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	h.log.Debug("terminal closed", "name", t.name)
	for _, fn := range subs {
		fn(t)
	}
}

// PTYTerminal is one shell running on a pty.
type PTYTerminal struct {
	host *PTYHost
	name string
	cmd  *exec.Cmd
	ptmx *os.File
	buf  *tail

	writeMu  sync.Mutex
	readDone chan struct{}
	done     chan struct{}
	exitErr  error
}

var _ registry.Terminal = (*PTYTerminal)(nil)

// Name returns the display name the terminal was created with.
func (t *PTYTerminal) Name() string { return t.name }

// Show makes t the foreground terminal; its output is forwarded to the
// host's writer from now on.
func (t *PTYTerminal) Show() { t.host.show(t) }

// SendText types text into the shell and presses Enter after each line.
func (t *PTYTerminal) SendText(text string) error {
	select {
	case <-t.done:
		return ErrTerminalClosed
	default:
	}
	command, err := validateAndSanitize(text)
	if err != nil {
		return err
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	for _, line := range inputLines(command) {
		if _, err := io.WriteString(t.ptmx, line+"\r"); err != nil {
			if errors.Is(err, os.ErrClosed) {
				return ErrTerminalClosed
			}
			return err
		}
	}
	return nil
}

// Attach copies r into the terminal's input until r is exhausted or the
// terminal closes.
func (t *PTYTerminal) Attach(r io.Reader) {
	go func() {
		_, _ = io.Copy(t.ptmx, r)
	}()
}

// Dispose kills the shell and waits for the terminal to close.
func (t *PTYTerminal) Dispose() error {
	select {
	case <-t.done:
		return nil
	default:
	}
	var err error
	if t.cmd.Process != nil {
		if kerr := t.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
	}
	<-t.done
	return err
}

// Done is closed once the shell has exited and subscribers were notified.
func (t *PTYTerminal) Done() <-chan struct{} { return t.done }

// Err returns the shell's exit error after Done is closed.
func (t *PTYTerminal) Err() error {
	select {
	case <-t.done:
		return t.exitErr
	default:
		return nil
	}
}

// Output returns the most recent output of the terminal.
func (t *PTYTerminal) Output() string { return t.buf.String() }

func (t *PTYTerminal) readLoop() {
	defer close(t.readDone)
	p := make([]byte, 4096)
	for {
		n, err := t.ptmx.Read(p)
		if n > 0 {
			_, _ = t.buf.Write(p[:n])
			t.host.forward(t, p[:n])
		}
		if err != nil {
			return
		}
	}
}

func (t *PTYTerminal) waitLoop() {
	t.exitErr = t.cmd.Wait()
	// a background job can keep the pty slave open after the shell exits
	select {
	case <-t.readDone:
	case <-time.After(drainTimeout):
	}
	_ = t.ptmx.Close()
	<-t.readDone
	t.host.closed(t)
	close(t.done)
}

// tail keeps the last limit bytes written to it.
type tail struct {
	mu    sync.Mutex
	limit int
	data  []byte
}

func newTail(limit int) *tail { return &tail{limit: limit} }

func (b *tail) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if over := len(b.data) - b.limit; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
	}
	return len(p), nil
}

func (b *tail) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}
