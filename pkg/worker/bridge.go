// Bridge functions proxy host calls that need state shared across the
// whole workspace — the entity store, blob storage, and the rate
// limiter — to the parent process over IPC, mirroring
// _examples/original_source/src/ipc/parent.rs's send_event_callback
// request/reply pairs.
package worker

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kpcyrd/sn0int/pkg/blob"
	"github.com/kpcyrd/sn0int/pkg/engine"
	"github.com/kpcyrd/sn0int/pkg/ipc"
)

func (w *Worker) dbAdd(family string, object engine.Value) (id *int64, err error) {
	payload, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	req := ipc.DBAddRequest{Type: ipc.TypeDBAdd, Family: family, Object: payload}
	if err := w.conn.Send(req); err != nil {
		return nil, err
	}
	var reply ipc.DBAddReply
	if err := w.conn.RecvInto(&reply); err != nil {
		return nil, err
	}
	return reply.ID, nil
}

func (w *Worker) dbSelect(family, value string) (*int64, bool, error) {
	req := ipc.DBSelectRequest{Type: ipc.TypeDBSelect, Family: family, Value: value}
	if err := w.conn.Send(req); err != nil {
		return nil, false, err
	}
	var reply ipc.DBSelectReply
	if err := w.conn.RecvInto(&reply); err != nil {
		return nil, false, err
	}
	return reply.ID, reply.Found, nil
}

func (w *Worker) dbUpdate(family string, id int64, update engine.Value) (bool, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return false, err
	}
	req := ipc.DBUpdateRequest{Type: ipc.TypeDBUpdate, Family: family, ID: id, Update: payload}
	if err := w.conn.Send(req); err != nil {
		return false, err
	}
	var reply ipc.DBUpdateReply
	if err := w.conn.RecvInto(&reply); err != nil {
		return false, err
	}
	return reply.OK, nil
}

// blobSave registers bytes with the parent's content-addressed blob
// store and returns its id. The local blob table is also updated so a
// subsequent in-script reference to the same id works without another
// round trip.
func (w *Worker) blobSave(script *engine.Script, data []byte) (string, error) {
	id := blob.Hash(data)
	req := ipc.BlobRequest{Type: ipc.TypeBlob, ID: id, BytesB64: base64.StdEncoding.EncodeToString(data)}
	if err := w.conn.Send(req); err != nil {
		return "", err
	}
	var reply ipc.BlobReply
	if err := w.conn.RecvInto(&reply); err != nil {
		return "", err
	}
	if !reply.OK {
		return "", fmt.Errorf("parent rejected blob %s", id)
	}
	w.blobs[id] = data
	script.Blobs.Put(id, data)
	return id, nil
}

func (w *Worker) blobLoad(script *engine.Script, id string) ([]byte, bool) {
	if data, ok := script.Blobs.Get(id); ok {
		return data, true
	}
	if data, ok := w.blobs[id]; ok {
		script.Blobs.Put(id, data)
		return data, true
	}
	return nil, false
}

// ratelimitThrottle blocks until the parent's shared bucket for key
// admits another pass, polling with a short backoff on a negative
// reply the way the script-visible `ratelimit_throttle` is documented
// to (SPEC_FULL.md §4.4 and ratelimits.rs's retry-delay model).
func (w *Worker) ratelimitThrottle(key string, passes int, perMs float64) error {
	for {
		req := ipc.RatelimitRequest{Type: ipc.TypeRatelimit, Key: key, Passes: passes, Time: perMs}
		if err := w.conn.Send(req); err != nil {
			return err
		}
		var reply ipc.RatelimitReply
		if err := w.conn.RecvInto(&reply); err != nil {
			return err
		}
		if reply.Passed {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
}

func (w *Worker) stdioReadline() (*string, error) {
	req := ipc.StdioRequest{Type: ipc.TypeStdio, Op: "readline"}
	if err := w.conn.Send(req); err != nil {
		return nil, err
	}
	var reply ipc.StdioReply
	if err := w.conn.RecvInto(&reply); err != nil {
		return nil, err
	}
	return reply.Line, nil
}
