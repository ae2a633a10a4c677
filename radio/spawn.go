package radio

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/kr/pty"
)

const localRTLTCPPort = "12345"

// rtlTCPProc is an rtl_tcp child process run under a pty so its output is
// line buffered.
type rtlTCPProc struct {
	cmd  *exec.Cmd
	fpty *os.File
	done chan struct{}
}

func startRTLTCP(ctx context.Context, index int, port string) (*rtlTCPProc, error) {
	cmd := exec.CommandContext(ctx, "rtl_tcp", "-a", "127.0.0.1", "-p", port, "-d", strconv.Itoa(index))
	fpty, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	p := &rtlTCPProc{cmd: cmd, fpty: fpty, done: make(chan struct{})}
	readyc := make(chan struct{})
	go func() {
		defer close(p.done)
		ready := false
		s := bufio.NewScanner(fpty)
		for s.Scan() {
			line := s.Text()
			glog.V(1).Infof("rtl_tcp: %s", line)
			if !ready && strings.Contains(line, "listening") {
				ready = true
				close(readyc)
			}
		}
	}()
	select {
	case <-readyc:
	case <-p.done:
		p.Close()
		return nil, errors.New("rtl_tcp exited before listening")
	case <-time.After(2 * time.Second):
		glog.Warningf("rtl_tcp not reported listening yet; connecting anyway")
	case <-ctx.Done():
		p.Close()
		return nil, ctx.Err()
	}
	return p, nil
}

func (p *rtlTCPProc) Close() error {
	if p.cmd.ProcessState == nil {
		p.cmd.Process.Signal(os.Interrupt)
	}
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		p.cmd.Process.Kill()
	}
	p.fpty.Close()
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Terminated by us.
		return nil
	}
	return err
}
