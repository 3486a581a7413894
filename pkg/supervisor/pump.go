package supervisor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kpcyrd/sn0int/pkg/blob"
	"github.com/kpcyrd/sn0int/pkg/db"
	"github.com/kpcyrd/sn0int/pkg/errkind"
	"github.com/kpcyrd/sn0int/pkg/ipc"
	"github.com/kpcyrd/sn0int/pkg/log"
)

// pump reads child requests off conn until an exit event arrives,
// answering each one against the shared subsystems before looping for
// the next line — the event-pump half of a worker's per-task lifecycle
// (SPEC_FULL.md §4.3).
func (s *Supervisor) pump(conn *ipc.Conn, task Task) error {
	for {
		raw, err := conn.Recv()
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("child for %s exited without a result", task.Label)
			}
			return err
		}

		typ, err := ipc.PeekType(raw)
		if err != nil {
			return fmt.Errorf("malformed ipc message from %s: %w", task.Label, err)
		}

		switch typ {
		case ipc.TypeLog:
			var req ipc.LogRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			s.log.WithField("module", task.Label).Log(log.Level(req.Level), req.Msg)

		case ipc.TypeDBAdd:
			var req ipc.DBAddRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			reply := s.handleDBAdd(req)
			if err := conn.Send(reply); err != nil {
				return err
			}

		case ipc.TypeDBSelect:
			var req ipc.DBSelectRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			reply := s.handleDBSelect(req)
			if err := conn.Send(reply); err != nil {
				return err
			}

		case ipc.TypeDBUpdate:
			var req ipc.DBUpdateRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			reply := s.handleDBUpdate(req)
			if err := conn.Send(reply); err != nil {
				return err
			}

		case ipc.TypeBlob:
			var req ipc.BlobRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			reply := s.handleBlob(req)
			if err := conn.Send(reply); err != nil {
				return err
			}

		case ipc.TypeRatelimit:
			var req ipc.RatelimitRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			reply := s.handleRatelimit(req)
			if err := conn.Send(reply); err != nil {
				return err
			}

		case ipc.TypeStdio:
			var req ipc.StdioRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			reply := s.handleStdio(req)
			if err := conn.Send(reply); err != nil {
				return err
			}

		case ipc.TypeExit:
			var req ipc.ExitRequest
			if err := unmarshal(raw, &req); err != nil {
				return err
			}
			if req.Result == ipc.ExitOK {
				return nil
			}
			return errkind.Newf(errkind.Validation, "module %s failed: %s", task.Label, string(req.Payload))

		default:
			return fmt.Errorf("unexpected ipc message type %q from %s", typ, task.Label)
		}
	}
}

func (s *Supervisor) handleDBAdd(req ipc.DBAddRequest) ipc.DBAddReply {
	var object map[string]interface{}
	if err := unmarshal(req.Object, &object); err != nil {
		return ipc.DBAddReply{}
	}

	family := db.Family(req.Family)
	if family == db.FamilyPort {
		if _, already := object["scoped"]; !already {
			if scoped, err := s.resolveScopedForPort(object); err == nil {
				object["scoped"] = scoped
			}
		}
	}

	id, err := s.db.Insert(family, object)
	if err != nil {
		s.log.WithError(err).Warn("db_add rejected")
		return ipc.DBAddReply{}
	}
	return ipc.DBAddReply{ID: &id}
}

// resolveScopedForPort looks up the port's parent ip_addr row so the
// autonoscope ruleset can match on the address rather than the bare port
// number, mirroring autonoscope.RuleSet.Matches's FamilyPort case.
func (s *Supervisor) resolveScopedForPort(object map[string]interface{}) (bool, error) {
	if s.db.Scope == nil {
		return true, nil
	}

	id, ok := toInt64(object["ip_addr_id"])
	if !ok {
		return s.db.Scope.Matches(db.FamilyPort, object)
	}

	filter, err := db.Parse([]string{fmt.Sprintf("id=%d", id)}, map[string]bool{"id": true})
	if err != nil {
		return true, err
	}
	rows, err := s.db.Filter(db.FamilyIpAddr, filter)
	if err != nil {
		return true, err
	}

	merged := make(map[string]interface{}, len(object)+1)
	for k, v := range object {
		merged[k] = v
	}
	if len(rows) > 0 {
		merged["_ipaddr"], _ = rows[0]["value"].(string)
	}
	return s.db.Scope.Matches(db.FamilyPort, merged)
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func (s *Supervisor) handleDBSelect(req ipc.DBSelectRequest) ipc.DBSelectReply {
	id, found, err := s.db.Select(db.Family(req.Family), req.Value)
	if err != nil || !found {
		return ipc.DBSelectReply{Found: false}
	}
	return ipc.DBSelectReply{ID: &id, Found: true}
}

func (s *Supervisor) handleDBUpdate(req ipc.DBUpdateRequest) ipc.DBUpdateReply {
	var changeset map[string]interface{}
	if err := unmarshal(req.Update, &changeset); err != nil {
		return ipc.DBUpdateReply{OK: false}
	}
	if err := s.db.Update(db.Family(req.Family), req.ID, changeset); err != nil {
		s.log.WithError(err).Warn("db_update rejected")
		return ipc.DBUpdateReply{OK: false}
	}
	return ipc.DBUpdateReply{OK: true}
}

func (s *Supervisor) handleBlob(req ipc.BlobRequest) ipc.BlobReply {
	data, err := base64.StdEncoding.DecodeString(req.BytesB64)
	if err != nil || blob.Hash(data) != req.ID {
		return ipc.BlobReply{OK: false}
	}
	if err := s.blobs.Save(blob.Blob{ID: req.ID, Bytes: data}); err != nil {
		s.log.WithError(err).Warn("failed to save blob")
		return ipc.BlobReply{OK: false}
	}
	return ipc.BlobReply{OK: true}
}

func (s *Supervisor) handleRatelimit(req ipc.RatelimitRequest) ipc.RatelimitReply {
	resp := s.limiter.Throttle(req.Key, req.Passes, time.Duration(req.Time*float64(time.Millisecond)))
	return ipc.RatelimitReply{Passed: resp.Pass}
}

func (s *Supervisor) handleStdio(req ipc.StdioRequest) ipc.StdioReply {
	if req.Op != "readline" {
		return ipc.StdioReply{}
	}
	line, err := s.stdin.ReadString('\n')
	if err != nil && line == "" {
		return ipc.StdioReply{}
	}
	line = strings.TrimRight(line, "\n")
	return ipc.StdioReply{Line: &line}
}

func unmarshal(raw []byte, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode ipc message: %w", err)
	}
	return nil
}
