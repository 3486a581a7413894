package ipc

import "encoding/json"

// ModuleRef is the module identity carried in a Start message — source,
// metadata preamble, and author/name, mirroring engine.Module's shape
// referenced by StartCommand in common.rs.
type ModuleRef struct {
	Author   string          `json:"author"`
	Name     string          `json:"name"`
	Source   string          `json:"source"`
	Metadata json.RawMessage `json:"metadata"`
}

// KeyringEntry mirrors keyring.Entry's wire shape (kept independent of the
// keyring package to avoid a dependency cycle between ipc and keyring).
type KeyringEntry struct {
	Namespace string  `json:"namespace"`
	AccessKey string  `json:"access_key"`
	SecretKey *string `json:"secret_key,omitempty"`
}

// DNSConfig carries the resolver configuration handed to a child, in lieu
// of `chrootable_https::dns::Resolver` in common.rs.
type DNSConfig struct {
	Nameservers []string `json:"nameservers"`
}

// Start is the parent->child bootstrap message (spec §6.4), sent exactly
// once at the top of a child's lifetime.
type Start struct {
	Type string `json:"type"`

	Verbose   int               `json:"verbose"`
	Keyring   []KeyringEntry    `json:"keyring"`
	DNSConfig DNSConfig         `json:"dns_config"`
	Proxy     *string           `json:"proxy,omitempty"`
	UserAgent *string           `json:"user_agent,omitempty"`
	Options   map[string]string `json:"options"`
	Module    ModuleRef         `json:"module"`
	Arg       json.RawMessage   `json:"arg"`
	Blobs     []StartBlob       `json:"blobs"`
}

// StartBlob is a blob prerequisite pre-loaded into the child's environment
// so a module can reference bytes without an extra round trip.
type StartBlob struct {
	ID      string `json:"id"`
	BytesB64 string `json:"bytes_b64"`
}

func NewStart() Start {
	return Start{Type: "start", Options: make(map[string]string)}
}

// Child->parent request type discriminators (spec §6.4).
const (
	TypeLog      = "log"
	TypeDBAdd    = "db_add"
	TypeDBSelect = "db_select"
	TypeDBUpdate = "db_update"
	TypeBlob     = "blob"
	TypeRatelimit = "ratelimit"
	TypeStdio    = "stdio"
	TypeExit     = "exit"
)

// LogRequest: {type:"log", level, msg}
type LogRequest struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func NewLogRequest(level, msg string) LogRequest {
	return LogRequest{Type: TypeLog, Level: level, Msg: msg}
}

// DBAddRequest: {type:"db_add", family, object}
type DBAddRequest struct {
	Type   string          `json:"type"`
	Family string          `json:"family"`
	Object json.RawMessage `json:"object"`
}

// DBAddReply carries back the inserted row id, or null if the insert was
// rejected (db_add's reply is "the inserted id or nil").
type DBAddReply struct {
	ID *int64 `json:"id"`
}

// DBSelectRequest: {type:"db_select", family, value}
type DBSelectRequest struct {
	Type   string `json:"type"`
	Family string `json:"family"`
	Value  string `json:"value"`
}

type DBSelectReply struct {
	ID    *int64 `json:"id"`
	Found bool   `json:"found"`
}

// DBUpdateRequest: {type:"db_update", family, id, update}
type DBUpdateRequest struct {
	Type   string          `json:"type"`
	Family string          `json:"family"`
	ID     int64           `json:"id"`
	Update json.RawMessage `json:"update"`
}

type DBUpdateReply struct {
	OK bool `json:"ok"`
}

// BlobRequest: {type:"blob", id, bytes_b64}. The parent hashes bytes_b64,
// verifies it matches id, and saves it into the active workspace's blob
// storage.
type BlobRequest struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	BytesB64 string `json:"bytes_b64"`
}

type BlobReply struct {
	OK bool `json:"ok"`
}

// RatelimitRequest: {type:"ratelimit", key, passes, time}
type RatelimitRequest struct {
	Type   string  `json:"type"`
	Key    string  `json:"key"`
	Passes int     `json:"passes"`
	Time   float64 `json:"time"`
}

type RatelimitReply struct {
	Passed bool `json:"passed"`
}

// StdioRequest: {type:"stdio", op} — op is e.g. "readline".
type StdioRequest struct {
	Type string `json:"type"`
	Op   string `json:"op"`
}

type StdioReply struct {
	Line *string `json:"line"`
}

// ExitResult names the outcome carried by an exit event.
type ExitResult string

const (
	ExitOK           ExitResult = "ok"
	ExitErr          ExitResult = "err"
	ExitSetupFailed  ExitResult = "setup_failed"
)

// ExitRequest: {type:"exit", result, payload?} — terminal message, no reply
// is sent back.
type ExitRequest struct {
	Type    string          `json:"type"`
	Result  ExitResult      `json:"result"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewExit(result ExitResult, payload interface{}) (ExitRequest, error) {
	req := ExitRequest{Type: TypeExit, Result: result}
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return ExitRequest{}, err
		}
		req.Payload = buf
	}
	return req, nil
}
