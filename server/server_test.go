package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vplay-cli/vplay/constant"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/player/playertest"
	"github.com/vplay-cli/vplay/session"
)

func init() {
	filesystem.SetMemMapFs()
}

const token = "secret"

type harness struct {
	srv     *Server
	ts      *httptest.Server
	hub     *Hub
	host    *session.Host
	backend *playertest.Fake
	cancel  context.CancelFunc
}

func newHarness() *harness {
	lo.Must0(filesystem.API().MkdirAll("/videos", 0o755))
	lo.Must0(filesystem.API().WriteFile("/videos/clip.mp4", []byte("data"), 0o644))
	lo.Must0(filesystem.API().WriteFile("/videos/notes.txt", []byte("data"), 0o644))

	h := &harness{
		backend: playertest.New(),
		hub:     NewHub(),
	}
	h.host = session.NewHost(h.backend, h.hub, session.DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { _ = h.host.Run(ctx) }()

	h.srv = New(h.host, h.hub, Options{Token: token, UploadLimit: 16, UploadDir: "/uploads"})
	h.ts = httptest.NewServer(h.srv.Handler())
	return h
}

func (h *harness) close() {
	h.ts.Close()
	h.cancel()
}

func (h *harness) request(method, path, contentType string, body io.Reader) (*http.Response, map[string]any) {
	req := lo.Must(http.NewRequest(method, h.ts.URL+path, body))
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp := lo.Must(http.DefaultClient.Do(req))
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (h *harness) post(path, body string) (*http.Response, map[string]any) {
	return h.request(http.MethodPost, path, "application/json", strings.NewReader(body))
}

func (h *harness) drop(name, contentType, content string) (*http.Response, map[string]any) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part := lo.Must(mw.CreatePart(header))
	_, _ = part.Write([]byte(content))
	lo.Must0(mw.Close())

	return h.request(http.MethodPost, "/api/drop", mw.FormDataContentType(), &buf)
}

func TestAPI(t *testing.T) {
	Convey("Given a running server", t, func() {
		h := newHarness()
		defer h.close()

		Convey("Requests without the token are refused", func() {
			resp := lo.Must(http.Get(h.ts.URL + "/api/status"))
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)

			req := lo.Must(http.NewRequest(http.MethodGet, h.ts.URL+"/api/status", nil))
			req.Header.Set("Authorization", "Bearer wrong")
			resp = lo.Must(http.DefaultClient.Do(req))
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("The health check is public", func() {
			resp := lo.Must(http.Get(h.ts.URL + "/healthz"))
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("The idle status shows the sentinels", func() {
			resp, body := h.request(http.MethodGet, "/api/status", "", nil)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)
			So(body["loaded"], ShouldEqual, false)
			So(body["elapsed"], ShouldEqual, constant.ElapsedUnset)
			So(body["total"], ShouldEqual, constant.TotalUnset)
		})

		Convey("Actions without a video conflict", func() {
			resp, _ := h.post("/api/actions/toggle", "")
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("Unknown actions suggest the closest one", func() {
			resp, body := h.post("/api/actions/volume-upp", "")

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["suggestion"], ShouldEqual, "volume-up")
		})

		Convey("Loading a missing file is not found", func() {
			resp, _ := h.post("/api/load", `{"path": "/videos/missing.mp4"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Loading a non-video is unsupported", func() {
			resp, _ := h.post("/api/load", `{"path": "/videos/notes.txt"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusUnsupportedMediaType)
		})

		Convey("Malformed bodies are rejected", func() {
			resp, _ := h.post("/api/load", `{"path":`)
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)

			resp, body := h.post("/api/load", `{}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			errs := body["errors"].([]any)
			So(errs[0].(map[string]any)["field"], ShouldEqual, "path")
		})

		Convey("With a loaded video", func() {
			resp, body := h.post("/api/load", `{"path": "/videos/clip.mp4"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["loaded"], ShouldEqual, true)
			So(body["file"], ShouldEqual, "clip.mp4")

			Convey("actions return the new status", func() {
				resp, body := h.post("/api/actions/volume-up", "")

				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["volume"], ShouldEqual, 0.6)
			})

			Convey("seeks are validated", func() {
				resp, body := h.post("/api/seek", `{}`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["errors"].([]any)[0].(map[string]any)["code"], ShouldEqual, "REQUIRED")

				resp, _ = h.post("/api/seek", `{"position": -1}`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

				resp, _ = h.post("/api/seek", `{"position": 0}`)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				resp, _ = h.post("/api/seek", `{"position": 42}`)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(h.backend.Snapshot(), ShouldContain, "seek 42.0")
			})

			Convey("keys are dispatched and unknown keys answer with the alert", func() {
				resp, body := h.post("/api/keys", `{"key": "ArrowDown"}`)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["volume"], ShouldEqual, 0.4)

				resp, body = h.post("/api/keys", `{"key": "q"}`)
				So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
				So(body["alert"], ShouldEqual, constant.AlertInvalidKey)
			})
		})

		Convey("Dropped non-videos are rejected without being stored", func() {
			resp, _ := h.drop("notes.txt", "text/plain", "hello")

			So(resp.StatusCode, ShouldEqual, http.StatusUnsupportedMediaType)
			So(lo.Must(filesystem.API().DirExists("/uploads")), ShouldBeFalse)
		})

		Convey("Dropped videos are stored and loaded", func() {
			resp, body := h.drop("Clip.MP4", "video/mp4", "data")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["file"], ShouldEqual, "Clip.MP4")
			So(strings.HasPrefix(body["path"].(string), "/uploads/"), ShouldBeTrue)
			So(strings.HasSuffix(body["path"].(string), ".mp4"), ShouldBeTrue)
			So(lo.Must(filesystem.API().ReadFile(body["path"].(string))), ShouldResemble, []byte("data"))
		})

		Convey("Oversized drops are refused", func() {
			resp, _ := h.drop("big.mp4", "video/mp4", strings.Repeat("x", 64))
			So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("The schema describes the status payload", func() {
			resp, body := h.request(http.MethodGet, "/api/schema", "", nil)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			props := body["properties"].(map[string]any)
			So(props, ShouldContainKey, "position")
			So(props, ShouldContainKey, "volume")
		})
	})
}

func dial(h *harness) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	So(err, ShouldBeNil)
	return conn
}

// next reads events until one of type typ arrives.
func next(conn *websocket.Conn, typ string) map[string]any {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var ev map[string]any
		if err := conn.ReadJSON(&ev); err != nil {
			So(err, ShouldBeNil)
			return nil
		}
		if ev["type"] == typ {
			return ev
		}
	}
}

func TestWebsocket(t *testing.T) {
	Convey("Given a websocket subscriber", t, func() {
		h := newHarness()
		defer h.close()

		conn := dial(h)
		defer conn.Close()

		Convey("the first event is the status", func() {
			ev := next(conn, EventStatus)
			So(ev["payload"].(map[string]any)["loaded"], ShouldEqual, false)
		})

		Convey("controller output is pushed", func() {
			next(conn, EventStatus)
			resp, _ := h.post("/api/load", `{"path": "/videos/clip.mp4"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			h.backend.Ready(125)
			ev := next(conn, EventTotal)
			So(ev["payload"].(map[string]any)["label"], ShouldEqual, "00:02:05")

			_, _ = h.post("/api/actions/speed-up", "")
			ev = next(conn, EventNotify)
			So(ev["payload"].(map[string]any)["message"], ShouldEqual, "Speed: 1.5x")
		})

		Convey("commands can be sent over the socket", func() {
			next(conn, EventStatus)
			_, _ = h.post("/api/load", `{"path": "/videos/clip.mp4"}`)

			So(conn.WriteJSON(map[string]any{"type": "key", "payload": "q"}), ShouldBeNil)
			ev := next(conn, EventAlert)
			So(ev["payload"].(map[string]any)["message"], ShouldEqual, constant.AlertInvalidKey)
			ev = next(conn, EventError)
			So(ev["payload"].(map[string]any)["error"], ShouldContainSubstring, "unrecognized key")

			So(conn.WriteJSON(map[string]any{"type": "rewind", "payload": nil}), ShouldBeNil)
			ev = next(conn, EventError)
			So(ev["payload"].(map[string]any)["error"], ShouldEqual, "unknown message type")

			So(conn.WriteJSON(map[string]any{"type": "action", "payload": "volume-down"}), ShouldBeNil)
			ev = next(conn, EventNotify)
			So(ev["payload"].(map[string]any)["message"], ShouldEqual, "Volume: 40%")
		})
	})
}

func TestHub(t *testing.T) {
	Convey("A client that falls behind is dropped", t, func() {
		hub := NewHub()
		c := hub.subscribe()

		for i := 0; i <= clientBuffer; i++ {
			hub.SetPosition(float64(i))
		}

		So(hub.Clients(), ShouldEqual, 0)
		drained := 0
		for range c.events {
			drained++
		}
		So(drained, ShouldEqual, clientBuffer)

		hub.unsubscribe(c)
	})
}

func TestServe(t *testing.T) {
	Convey("Serve stops when its context is cancelled", t, func() {
		h := newHarness()
		defer h.close()

		ln := lo.Must(net.Listen("tcp", "127.0.0.1:0"))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- h.srv.Serve(ctx, ln) }()

		resp := lo.Must(http.Get("http://" + ln.Addr().String() + "/healthz"))
		resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		cancel()
		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(3 * time.Second):
			So("timeout", ShouldBeEmpty)
		}
	})
}
