// Package worker implements the sandboxed child event loop (component
// C9's child half, SPEC_FULL.md §4.2/§6.4): read a Start message, load
// the module's source into a script VM, register every host function
// group onto it, run the module's entry point, and report the result
// back over IPC. Grounded on
// _examples/original_source/src/ipc/child.rs's `run` function.
package worker

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/kpcyrd/sn0int/pkg/engine"
	"github.com/kpcyrd/sn0int/pkg/host/httpsession"
	"github.com/kpcyrd/sn0int/pkg/host/mqtt"
	"github.com/kpcyrd/sn0int/pkg/host/sock"
	"github.com/kpcyrd/sn0int/pkg/host/ws"
	"github.com/kpcyrd/sn0int/pkg/ipc"
)

// Worker owns the child's IPC connection, the blob bytes the parent
// preloaded into the Start message, and every stateful host handle a
// running module may accumulate (sockets, websockets, mqtt clients) —
// all keyed by a locally-minted opaque id, the same indirection
// SPEC_FULL.md §4.4 uses for sessions and sockets alike.
type Worker struct {
	conn  *ipc.Conn
	blobs map[string][]byte

	httpMgr *httpsession.Manager

	nextID  int64
	sockets map[string]*sock.Socket
	wsConns map[string]*ws.Socket
	mqttCli map[string]*mqtt.Client
}

func (w *Worker) mintID() string {
	return strconv.FormatInt(atomic.AddInt64(&w.nextID, 1), 10)
}

// Run reads a single Start message from r, executes the named module
// against w, and reports its outcome — the child process's entire
// lifetime (one module run per process, matching sandbox.rs's one
// child per invocation).
func Run(r io.Reader, w io.Writer) error {
	conn := ipc.NewConn(r, w)

	var start ipc.Start
	if err := conn.RecvInto(&start); err != nil {
		return fmt.Errorf("failed to read start message: %w", err)
	}

	proxy := ""
	if start.Proxy != nil {
		proxy = *start.Proxy
	}
	client, err := httpsession.NewClient(proxy, 0)
	if err != nil {
		return fmt.Errorf("failed to build http client: %w", err)
	}

	worker := &Worker{
		conn:    conn,
		blobs:   make(map[string][]byte),
		httpMgr: httpsession.NewManager(client),
		sockets: make(map[string]*sock.Socket),
		wsConns: make(map[string]*ws.Socket),
		mqttCli: make(map[string]*mqtt.Client),
	}
	for _, b := range start.Blobs {
		data, err := base64.StdEncoding.DecodeString(b.BytesB64)
		if err != nil {
			return fmt.Errorf("failed to decode preloaded blob %s: %w", b.ID, err)
		}
		worker.blobs[b.ID] = data
	}

	result, runErr := worker.runModule(start)

	var exit ipc.ExitRequest
	if runErr != nil {
		worker.logf("error", runErr.Error())
		exit, _ = ipc.NewExit(ipc.ExitErr, map[string]string{"error": runErr.Error()})
	} else {
		exit, _ = ipc.NewExit(ipc.ExitOK, result)
	}
	return conn.Send(exit)
}

func (w *Worker) runModule(start ipc.Start) (interface{}, error) {
	script, err := engine.Load(string(start.Module.Source))
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	defer script.Close()

	script.RegisterCore(func(level, msg string) { w.logf(level, msg) })
	w.registerHostFunctions(script, start)

	arg, err := engine.ParseJSON(start.Arg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode module argument: %w", err)
	}

	if err := script.Run(string(start.Module.Source), arg); err != nil {
		return nil, err
	}
	return nil, nil
}

func (w *Worker) logf(level, msg string) {
	_ = w.conn.Send(ipc.NewLogRequest(level, msg))
}
