package cmd

import (
	"bytes"
	"io"
	"net"
	"os"
	"time"

	"github.com/renato0307/vigia/internal/logging"
)

// HookCmd forwards one hook event from stdin to the daemon socket. Claude
// Code invokes it for every configured hook, so it must never fail the
// hook: when the daemon is down the event is dropped with a log line.
type HookCmd struct {
	Socket  string        `help:"Override the daemon socket path"`
	Timeout time.Duration `help:"Socket write timeout" default:"2s"`
}

// Run reads stdin and writes it as a single line to the socket
func (h *HookCmd) Run(cli *CLI) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logging.Logger.Warn("Failed to read hook input", "error", err)
		return nil
	}
	input = bytes.TrimSpace(input)
	if len(input) == 0 {
		return nil
	}

	socketPath := cli.Container.Settings.SocketPathOrDefault()
	if h.Socket != "" {
		socketPath = h.Socket
	}

	conn, err := net.DialTimeout("unix", socketPath, h.Timeout)
	if err != nil {
		logging.Logger.Warn("Daemon not reachable, dropping hook event",
			"socket", socketPath, "error", err)
		return nil
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(h.Timeout))
	if _, err := conn.Write(append(input, '\n')); err != nil {
		logging.Logger.Warn("Failed to deliver hook event", "error", err)
	}
	return nil
}
