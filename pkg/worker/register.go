// Host function registration: one Register call per script-visible
// name, bridging engine.Value arguments to each pkg/host/* subsystem.
// Grounded on the per-capability `runtime::*(&mut lua, state.clone())`
// call list _examples/original_source/src/engine/ctx.rs comments out —
// this file is the Go equivalent of uncommenting and implementing every
// entry in that list.
package worker

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/kpcyrd/sn0int/pkg/engine"
	"github.com/kpcyrd/sn0int/pkg/host/cryptoutil"
	"github.com/kpcyrd/sn0int/pkg/host/dnsres"
	"github.com/kpcyrd/sn0int/pkg/host/geoip"
	"github.com/kpcyrd/sn0int/pkg/host/httpsession"
	"github.com/kpcyrd/sn0int/pkg/host/imageutil"
	"github.com/kpcyrd/sn0int/pkg/host/mqtt"
	"github.com/kpcyrd/sn0int/pkg/host/parse"
	"github.com/kpcyrd/sn0int/pkg/host/psl"
	"github.com/kpcyrd/sn0int/pkg/host/sock"
	"github.com/kpcyrd/sn0int/pkg/host/ws"
	"github.com/kpcyrd/sn0int/pkg/ipc"
)

func (w *Worker) registerHostFunctions(script *engine.Script, start ipc.Start) {
	w.registerDB(script)
	w.registerBlob(script)
	w.registerRatelimit(script)
	w.registerCrypto(script)
	w.registerPSL(script)
	w.registerDNS(script, start)
	w.registerGeoIP(script, start)
	w.registerImage(script)
	w.registerHTTP(script)
	w.registerSock(script, start)
	w.registerWS(script)
	w.registerMQTT(script)
	w.registerParse(script)
}

// --- entity store -------------------------------------------------------

func (w *Worker) registerDB(script *engine.Script) {
	script.Register("db_add", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("db_add requires a family and an object")
		}
		family, _ := engine.AsString(args[0])
		id, err := w.dbAdd(family, args[1])
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if id == nil {
			return engine.Nil(), nil
		}
		return engine.NumberValue(float64(*id)), nil
	})

	script.Register("db_select", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("db_select requires a family and a value")
		}
		family, _ := engine.AsString(args[0])
		value, _ := engine.AsString(args[1])
		id, found, err := w.dbSelect(family, value)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if !found || id == nil {
			return engine.Nil(), nil
		}
		return engine.NumberValue(float64(*id)), nil
	})

	script.Register("db_update", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("db_update requires a family, id, and update object")
		}
		family, _ := engine.AsString(args[0])
		idf, _ := engine.AsNumber(args[1])
		ok, err := w.dbUpdate(family, int64(idf), args[2])
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(ok), nil
	})
}

// --- blob store -----------------------------------------------------------

func (w *Worker) registerBlob(script *engine.Script) {
	script.Register("blob_add", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("blob_add requires a byte string")
		}
		data, ok := engine.AsBytes(args[0])
		if !ok {
			return engine.Nil(), fmt.Errorf("invalid type")
		}
		id, err := w.blobSave(script, data)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.StringValue(id), nil
	})

	script.Register("blob_get", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("blob_get requires an id")
		}
		id, _ := engine.AsString(args[0])
		data, ok := w.blobLoad(script, id)
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown blob: %s", id))
		}
		return engine.BytesValue(data), nil
	})
}

// --- rate limiting --------------------------------------------------------

func (w *Worker) registerRatelimit(script *engine.Script) {
	script.Register("ratelimit_throttle", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("ratelimit_throttle requires key, passes, time")
		}
		key, _ := engine.AsString(args[0])
		passes, _ := engine.AsNumber(args[1])
		perMs, _ := engine.AsNumber(args[2])
		if err := w.ratelimitThrottle(key, int(passes), perMs); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.Nil(), nil
	})

	script.Register("sleep", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("sleep requires a duration in seconds")
		}
		secs, _ := engine.AsNumber(args[0])
		time.Sleep(time.Duration(secs * float64(time.Second)))
		return engine.Nil(), nil
	})
}

// --- hashing ---------------------------------------------------------------

func (w *Worker) registerCrypto(script *engine.Script) {
	digests := map[string]func([]byte) []byte{
		"md5":      cryptoutil.MD5,
		"sha1":     cryptoutil.SHA1,
		"sha2_256": cryptoutil.SHA256,
		"sha2_512": cryptoutil.SHA512,
		"sha3_256": cryptoutil.SHA3_256,
		"sha3_512": cryptoutil.SHA3_512,
	}
	for name, fn := range digests {
		name, fn := name, fn
		script.Register(name, func(args []engine.Value) (engine.Value, error) {
			if len(args) < 1 {
				return engine.Nil(), fmt.Errorf("%s requires a byte string", name)
			}
			data, ok := engine.AsBytes(args[0])
			if !ok {
				return engine.Nil(), fmt.Errorf("invalid type")
			}
			return engine.BytesValue(fn(data)), nil
		})
	}

	script.Register("hmac", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("hmac requires digest, secret, msg")
		}
		digest, _ := engine.AsString(args[0])
		secret, _ := engine.AsBytes(args[1])
		msg, _ := engine.AsBytes(args[2])
		sum, err := cryptoutil.HMAC(digest, secret, msg)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(sum), nil
	})

	script.Register("hexlify", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("hexlify requires a byte string")
		}
		data, ok := engine.AsBytes(args[0])
		if !ok {
			return engine.Nil(), fmt.Errorf("invalid type")
		}
		return engine.StringValue(cryptoutil.Hex(data)), nil
	})
}

// --- public suffix list -----------------------------------------------------

func (w *Worker) registerPSL(script *engine.Script) {
	script.Register("psl_domain_from_dns_name", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("psl_domain_from_dns_name requires a name")
		}
		name, _ := engine.AsString(args[0])
		dns, err := psl.ParseDnsName(name)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		full := engine.Nil()
		if dns.FullDomain != nil {
			full = engine.StringValue(*dns.FullDomain)
		}
		obj, err := engine.ObjectOf(
			"full_domain", full,
			"root", dns.Root,
			"suffix", dns.Suffix,
		)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})
}

// --- dns ---------------------------------------------------------------

func (w *Worker) registerDNS(script *engine.Script, start ipc.Start) {
	cfg := dnsres.DefaultConfig()
	if len(start.DNSConfig.Nameservers) > 0 {
		cfg.Nameservers = start.DNSConfig.Nameservers
	}
	resolver := dnsres.New(cfg)

	script.Register("dns", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("dns requires a name and a record type")
		}
		name, _ := engine.AsString(args[0])
		recordType, _ := engine.AsString(args[1])

		answers, err := resolver.Resolve(context.Background(), name, recordType)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		values := make([]engine.Value, len(answers))
		for i, a := range answers {
			obj, err := engine.ObjectOf("type", a.Type, "value", a.Value)
			if err != nil {
				return engine.Nil(), script.State.SetErr(err)
			}
			values[i] = obj
		}
		return engine.ListOf(values...), nil
	})
}

// --- geoip ---------------------------------------------------------------

func (w *Worker) registerGeoIP(script *engine.Script, start ipc.Start) {
	dbs, err := geoip.Open(start.Options["geoip_city_db"], start.Options["geoip_asn_db"])
	if err != nil {
		dbs = &geoip.Databases{}
	}

	script.Register("geoip_lookup", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("geoip_lookup requires an ip address")
		}
		ip, _ := engine.AsString(args[0])
		city, err := dbs.City(ip)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		obj, err := engine.ObjectOf(
			"country", city.Country.IsoCode,
			"city", city.City.Names["en"],
		)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})

	script.Register("asn_lookup", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("asn_lookup requires an ip address")
		}
		ip, _ := engine.AsString(args[0])
		asn, err := dbs.ASN(ip)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		obj, err := engine.ObjectOf(
			"asn", int(asn.AutonomousSystemNumber),
			"org", asn.AutonomousSystemOrganization,
		)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})
}

// --- images ---------------------------------------------------------------

func (w *Worker) registerImage(script *engine.Script) {
	script.Register("img_load", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("img_load requires image bytes")
		}
		buf, ok := engine.AsBytes(args[0])
		if !ok {
			return engine.Nil(), fmt.Errorf("invalid type")
		}
		_, data, err := imageutil.Load(buf)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		obj, err := engine.ObjectOf("mime", data.Mime, "width", data.Width, "height", data.Height)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})

	hashers := map[string]func(image.Image) (string, error){
		"img_ahash": imageutil.AHash,
		"img_dhash": imageutil.DHash,
		"img_phash": imageutil.PHash,
	}
	for name, fn := range hashers {
		name, fn := name, fn
		script.Register(name, func(args []engine.Value) (engine.Value, error) {
			if len(args) < 1 {
				return engine.Nil(), fmt.Errorf("%s requires image bytes", name)
			}
			buf, ok := engine.AsBytes(args[0])
			if !ok {
				return engine.Nil(), fmt.Errorf("invalid type")
			}
			img, _, err := imageutil.Load(buf)
			if err != nil {
				return engine.Nil(), script.State.SetErr(err)
			}
			hash, err := fn(img)
			if err != nil {
				return engine.Nil(), script.State.SetErr(err)
			}
			return engine.StringValue(hash), nil
		})
	}

	script.Register("img_exif_gps", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("img_exif_gps requires image bytes")
		}
		buf, ok := engine.AsBytes(args[0])
		if !ok {
			return engine.Nil(), fmt.Errorf("invalid type")
		}
		loc, err := imageutil.GPS(buf)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if loc == nil {
			return engine.Nil(), nil
		}
		obj, err := engine.ObjectOf("latitude", loc.Latitude, "longitude", loc.Longitude)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})
}

// --- http sessions ----------------------------------------------------------

func (w *Worker) registerHTTP(script *engine.Script) {
	script.Register("http_mksession", func(args []engine.Value) (engine.Value, error) {
		return engine.StringValue(w.httpMgr.MkSession()), nil
	})

	script.Register("http_request", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("http_request requires session, method, url")
		}
		session, _ := engine.AsString(args[0])
		method, _ := engine.AsString(args[1])
		url, _ := engine.AsString(args[2])

		var opts httpsession.Options
		if len(args) > 3 {
			if headers, ok := engine.ObjectGet(args[3], "headers"); ok {
				opts.Headers = valueToStringMap(headers)
			}
			if ua, ok := engine.ObjectGetString(args[3], "user_agent"); ok {
				opts.UserAgent = ua
			}
			if body, ok := engine.ObjectGetString(args[3], "body"); ok {
				opts.Body = body
			}
		}

		req := &httpsession.Request{Session: session, Method: method, URL: url, Options: opts}
		obj, err := engine.ObjectOf(
			"session", req.Session,
			"method", req.Method,
			"url", req.URL,
		)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})

	script.Register("http_send", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("http_send requires a request object")
		}
		session, _ := engine.ObjectGetString(args[0], "session")
		method, _ := engine.ObjectGetString(args[0], "method")
		url, _ := engine.ObjectGetString(args[0], "url")

		resp, err := w.httpMgr.Send(&httpsession.Request{Session: session, Method: method, URL: url}, func(data []byte) string {
			id, saveErr := w.blobSave(script, data)
			if saveErr != nil {
				return ""
			}
			return id
		})
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}

		headers := make(map[string]string, len(resp.Headers))
		for k, v := range resp.Headers {
			headers[k] = v
		}
		obj, err := engine.ObjectOf(
			"status", resp.Status,
			"headers", headers,
			"text", resp.Text,
		)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})
}

func valueToStringMap(v engine.Value) map[string]string {
	out := make(map[string]string)
	for _, p := range v.Pairs {
		if p.Key.Str != nil && p.Value.Str != nil {
			out[*p.Key.Str] = *p.Value.Str
		}
	}
	return out
}

// --- raw sockets -------------------------------------------------------

func (w *Worker) registerSock(script *engine.Script, start ipc.Start) {
	cfg := dnsres.DefaultConfig()
	if len(start.DNSConfig.Nameservers) > 0 {
		cfg.Nameservers = start.DNSConfig.Nameservers
	}
	resolver := dnsres.New(cfg)
	resolve := func(host string) ([]string, error) {
		answers, err := resolver.Resolve(context.Background(), host, "A")
		if err != nil {
			return nil, err
		}
		out := make([]string, len(answers))
		for i, a := range answers {
			out[i] = a.Value
		}
		return out, nil
	}

	script.Register("sock_connect", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("sock_connect requires host, port")
		}
		host, _ := engine.AsString(args[0])
		port, _ := engine.AsNumber(args[1])

		var opts sock.Options
		if len(args) > 2 {
			if tls, ok := engine.ObjectGet(args[2], "tls"); ok && tls.Bool != nil {
				opts.TLS = *tls.Bool
			}
		}

		s, err := sock.Connect(host, int(port), resolve, opts)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		id := w.mintID()
		w.sockets[id] = s
		return engine.StringValue(id), nil
	})

	script.Register("sock_send", func(args []engine.Value) (engine.Value, error) {
		s, data, err := w.socketArgs(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if err := s.Send(data); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})

	script.Register("sock_sendline", func(args []engine.Value) (engine.Value, error) {
		id, line, err := w.socketAndString(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		s, ok := w.sockets[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown socket: %s", id))
		}
		if err := s.SendLine(line); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})

	script.Register("sock_recv", func(args []engine.Value) (engine.Value, error) {
		s, err := w.socketByID(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		buf, err := s.Recv()
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(buf), nil
	})

	script.Register("sock_recvline", func(args []engine.Value) (engine.Value, error) {
		s, err := w.socketByID(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		line, err := s.RecvLine()
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.StringValue(line), nil
	})

	script.Register("sock_recvall", func(args []engine.Value) (engine.Value, error) {
		s, err := w.socketByID(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		buf, err := s.RecvAll()
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(buf), nil
	})

	script.Register("sock_recvn", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("sock_recvn requires an id and a count")
		}
		id, _ := engine.AsString(args[0])
		n, _ := engine.AsNumber(args[1])
		s, ok := w.sockets[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown socket: %s", id))
		}
		buf, err := s.RecvN(int(n))
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(buf), nil
	})

	script.Register("sock_recvuntil", func(args []engine.Value) (engine.Value, error) {
		id, delim, err := w.socketAndString(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		s, ok := w.sockets[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown socket: %s", id))
		}
		buf, err := s.RecvUntil([]byte(delim))
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(buf), nil
	})

	script.Register("sock_sendafter", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("sock_sendafter requires id, needle, data")
		}
		id, _ := engine.AsString(args[0])
		needle, _ := engine.AsString(args[1])
		data, _ := engine.AsBytes(args[2])
		s, ok := w.sockets[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown socket: %s", id))
		}
		if err := s.SendAfter(needle, data); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})

	script.Register("sock_newline", func(args []engine.Value) (engine.Value, error) {
		id, nl, err := w.socketAndString(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		s, ok := w.sockets[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown socket: %s", id))
		}
		s.SetNewline(nl)
		return engine.BoolValue(true), nil
	})

	script.Register("sock_upgrade_to_tls", func(args []engine.Value) (engine.Value, error) {
		s, err := w.socketByID(args)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if err := s.UpgradeToTLS(sock.Options{}); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})
}

func (w *Worker) socketByID(args []engine.Value) (*sock.Socket, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("expected a socket id")
	}
	id, _ := engine.AsString(args[0])
	s, ok := w.sockets[id]
	if !ok {
		return nil, fmt.Errorf("unknown socket: %s", id)
	}
	return s, nil
}

func (w *Worker) socketArgs(args []engine.Value) (*sock.Socket, []byte, error) {
	if len(args) < 2 {
		return nil, nil, fmt.Errorf("expected a socket id and data")
	}
	id, _ := engine.AsString(args[0])
	data, _ := engine.AsBytes(args[1])
	s, ok := w.sockets[id]
	if !ok {
		return nil, nil, fmt.Errorf("unknown socket: %s", id)
	}
	return s, data, nil
}

func (w *Worker) socketAndString(args []engine.Value) (string, string, error) {
	if len(args) < 2 {
		return "", "", fmt.Errorf("expected a socket id and a string")
	}
	id, _ := engine.AsString(args[0])
	str, _ := engine.AsString(args[1])
	return id, str, nil
}

// --- websockets -------------------------------------------------------

func (w *Worker) registerWS(script *engine.Script) {
	script.Register("ws_connect", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("ws_connect requires a url")
		}
		url, _ := engine.AsString(args[0])
		s, err := ws.Connect(url, ws.Options{ConnectTimeout: 30 * time.Second})
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		id := w.mintID()
		w.wsConns[id] = s
		return engine.StringValue(id), nil
	})

	script.Register("ws_send_text", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("ws_send_text requires id, text")
		}
		id, _ := engine.AsString(args[0])
		text, _ := engine.AsString(args[1])
		conn, ok := w.wsConns[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown websocket: %s", id))
		}
		if err := conn.WriteText(text); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})

	script.Register("ws_send_binary", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("ws_send_binary requires id, data")
		}
		id, _ := engine.AsString(args[0])
		data, _ := engine.AsBytes(args[1])
		conn, ok := w.wsConns[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown websocket: %s", id))
		}
		if err := conn.WriteBinary(data); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})

	script.Register("ws_recv_text", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("ws_recv_text requires an id")
		}
		id, _ := engine.AsString(args[0])
		conn, ok := w.wsConns[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown websocket: %s", id))
		}
		text, err := conn.ReadText()
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if text == nil {
			return engine.Nil(), nil
		}
		return engine.StringValue(*text), nil
	})

	script.Register("ws_recv_binary", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("ws_recv_binary requires an id")
		}
		id, _ := engine.AsString(args[0])
		conn, ok := w.wsConns[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown websocket: %s", id))
		}
		data, err := conn.ReadBinary()
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if data == nil {
			return engine.Nil(), nil
		}
		return engine.BytesValue(data), nil
	})
}

// --- mqtt ---------------------------------------------------------------

func (w *Worker) registerMQTT(script *engine.Script) {
	script.Register("mqtt_connect", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("mqtt_connect requires a url")
		}
		url, _ := engine.AsString(args[0])
		c, err := mqtt.Connect(url, mqtt.Options{ConnectTimeout: 30 * time.Second})
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		id := w.mintID()
		w.mqttCli[id] = c
		return engine.StringValue(id), nil
	})

	script.Register("mqtt_subscribe", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("mqtt_subscribe requires id, topic")
		}
		id, _ := engine.AsString(args[0])
		topic, _ := engine.AsString(args[1])
		qos := 0.0
		if len(args) > 2 {
			qos, _ = engine.AsNumber(args[2])
		}
		c, ok := w.mqttCli[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown mqtt client: %s", id))
		}
		if err := c.Subscribe(topic, byte(qos)); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})

	script.Register("mqtt_recv", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("mqtt_recv requires an id")
		}
		id, _ := engine.AsString(args[0])
		c, ok := w.mqttCli[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown mqtt client: %s", id))
		}
		pkt, err := c.RecvPkt(5 * time.Second)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if pkt == nil {
			return engine.Nil(), nil
		}
		obj, err := engine.ObjectOf("type", pkt.Type, "topic", pkt.Topic, "body", pkt.Body)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})

	script.Register("mqtt_ping", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("mqtt_ping requires an id")
		}
		id, _ := engine.AsString(args[0])
		c, ok := w.mqttCli[id]
		if !ok {
			return engine.Nil(), script.State.SetErr(fmt.Errorf("unknown mqtt client: %s", id))
		}
		if err := c.Ping(); err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BoolValue(true), nil
	})
}

// --- url/encoding/regex/datetime/html ----------------------------------

func (w *Worker) registerParse(script *engine.Script) {
	script.Register("url_join", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("url_join requires base, update")
		}
		base, _ := engine.AsString(args[0])
		update, _ := engine.AsString(args[1])
		joined, err := parse.Join(base, update)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.StringValue(joined), nil
	})

	script.Register("url_parse", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("url_parse requires a url")
		}
		raw, _ := engine.AsString(args[0])
		u, err := parse.Parse(raw)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		kv := []interface{}{"scheme", u.Scheme, "host", u.Host, "path", u.Path}
		if u.Port != 0 {
			kv = append(kv, "port", u.Port)
		}
		if u.Query != "" {
			kv = append(kv, "query", u.Query)
		}
		if u.Fragment != "" {
			kv = append(kv, "fragment", u.Fragment)
		}
		if u.Params != nil {
			kv = append(kv, "params", u.Params)
		}
		obj, err := engine.ObjectOf(kv...)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})

	script.Register("base64_decode", func(args []engine.Value) (engine.Value, error) {
		text, _ := engine.AsString(args[0])
		data, err := parse.Base64Decode(text)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(data), nil
	})

	script.Register("base64_encode", func(args []engine.Value) (engine.Value, error) {
		data, _ := engine.AsBytes(args[0])
		return engine.StringValue(parse.Base64Encode(data)), nil
	})

	script.Register("base64_custom_decode", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("base64_custom_decode requires bytes, alphabet, padding")
		}
		text, _ := engine.AsString(args[0])
		alphabet, _ := engine.AsString(args[1])
		padding, _ := engine.AsString(args[2])
		data, err := parse.Base64CustomDecode(text, alphabet, padding)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(data), nil
	})

	script.Register("base64_custom_encode", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("base64_custom_encode requires bytes, alphabet, padding")
		}
		data, _ := engine.AsBytes(args[0])
		alphabet, _ := engine.AsString(args[1])
		padding, _ := engine.AsString(args[2])
		out, err := parse.Base64CustomEncode(data, alphabet, padding)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.StringValue(out), nil
	})

	script.Register("base32_custom_decode", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("base32_custom_decode requires bytes, alphabet, padding")
		}
		text, _ := engine.AsString(args[0])
		alphabet, _ := engine.AsString(args[1])
		padding, _ := engine.AsString(args[2])
		data, err := parse.Base32CustomDecode(text, alphabet, padding)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.BytesValue(data), nil
	})

	script.Register("base32_custom_encode", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 3 {
			return engine.Nil(), fmt.Errorf("base32_custom_encode requires bytes, alphabet, padding")
		}
		data, _ := engine.AsBytes(args[0])
		alphabet, _ := engine.AsString(args[1])
		padding, _ := engine.AsString(args[2])
		out, err := parse.Base32CustomEncode(data, alphabet, padding)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.StringValue(out), nil
	})

	script.Register("regex_find", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("regex_find requires a pattern and data")
		}
		pattern, _ := engine.AsString(args[0])
		data, _ := engine.AsString(args[1])
		m, err := parse.RegexFind(pattern, data)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if m == nil {
			return engine.Nil(), nil
		}
		values := make([]engine.Value, len(m))
		for i, s := range m {
			values[i] = engine.StringValue(s)
		}
		return engine.ListOf(values...), nil
	})

	script.Register("regex_find_all", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("regex_find_all requires a pattern and data")
		}
		pattern, _ := engine.AsString(args[0])
		data, _ := engine.AsString(args[1])
		matches, err := parse.RegexFindAll(pattern, data)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		rows := make([]engine.Value, len(matches))
		for i, m := range matches {
			values := make([]engine.Value, len(m))
			for j, s := range m {
				values[j] = engine.StringValue(s)
			}
			rows[i] = engine.ListOf(values...)
		}
		return engine.ListOf(rows...), nil
	})

	script.Register("datetime", func(args []engine.Value) (engine.Value, error) {
		return engine.StringValue(parse.Datetime()), nil
	})
	script.Register("sn0int_time", func(args []engine.Value) (engine.Value, error) {
		return engine.StringValue(parse.Datetime()), nil
	})
	script.Register("time_unix", func(args []engine.Value) (engine.Value, error) {
		return engine.NumberValue(float64(parse.TimeUnix())), nil
	})

	script.Register("sn0int_time_from", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("sn0int_time_from requires a timestamp")
		}
		ts, _ := engine.AsNumber(args[0])
		return engine.StringValue(parse.Sn0intTimeFrom(int64(ts))), nil
	})

	script.Register("strftime", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("strftime requires a format and a timestamp")
		}
		format, _ := engine.AsString(args[0])
		ts, _ := engine.AsNumber(args[1])
		out, err := parse.Strftime(format, int64(ts))
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.StringValue(out), nil
	})

	script.Register("strptime", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("strptime requires a format and a time string")
		}
		format, _ := engine.AsString(args[0])
		value, _ := engine.AsString(args[1])
		ts, err := parse.Strptime(format, value)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return engine.NumberValue(float64(ts)), nil
	})

	script.Register("html_select", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("html_select requires html and a selector")
		}
		html, _ := engine.AsString(args[0])
		selector, _ := engine.AsString(args[1])
		elem, err := parse.HtmlSelect(html, selector)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		if elem == nil {
			return engine.Nil(), nil
		}
		return elementToValue(*elem)
	})

	script.Register("html_select_list", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 2 {
			return engine.Nil(), fmt.Errorf("html_select_list requires html and a selector")
		}
		html, _ := engine.AsString(args[0])
		selector, _ := engine.AsString(args[1])
		elems, err := parse.HtmlSelectList(html, selector)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		values := make([]engine.Value, len(elems))
		for i, e := range elems {
			v, err := elementToValue(e)
			if err != nil {
				return engine.Nil(), script.State.SetErr(err)
			}
			values[i] = v
		}
		return engine.ListOf(values...), nil
	})

	script.Register("html_form", func(args []engine.Value) (engine.Value, error) {
		if len(args) < 1 {
			return engine.Nil(), fmt.Errorf("html_form requires html")
		}
		html, _ := engine.AsString(args[0])
		form, err := parse.HtmlForm(html)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		obj, err := engine.ObjectOf("form", form)
		if err != nil {
			return engine.Nil(), script.State.SetErr(err)
		}
		return obj, nil
	})
}

func elementToValue(e parse.Element) (engine.Value, error) {
	return engine.ObjectOf("text", e.Text, "html", e.HTML, "attrs", e.Attrs)
}
