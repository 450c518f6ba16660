package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/vplay-cli/vplay/constant"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/history"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/session"
)

type seekRequest struct {
	Position *float64 `json:"position" validate:"required,gte=0"`
}

type keyRequest struct {
	Key string `json:"key" validate:"required,max=32"`
}

type loadRequest struct {
	Path string `json:"path" validate:"required"`
}

// decode reads and validates a JSON body, answering the request itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(r, dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Envelope{"error": err.Error()})
		return false
	}

	if violations, ok := s.validate.Validate(dst); !ok {
		writeJSON(w, http.StatusBadRequest, Envelope{"errors": violations})
		return false
	}

	return true
}

// respond runs fn on the controller loop and answers with the resulting status.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, fn func(c *session.Controller) error) {
	var status session.Status
	err := s.host.Do(r.Context(), func(c *session.Controller) error {
		err := fn(c)
		status = c.Status()
		return err
	})

	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	body := Envelope{"error": err.Error()}

	switch {
	case errors.Is(err, session.ErrNoActiveSession):
		code = http.StatusConflict
	case errors.Is(err, session.ErrInvalidFileType):
		code = http.StatusUnsupportedMediaType
	case errors.Is(err, session.ErrUnrecognizedKey):
		code = http.StatusUnprocessableEntity
		body["alert"] = constant.AlertInvalidKey
	case errors.Is(err, session.ErrUnknownAction):
		code = http.StatusNotFound
	case errors.Is(err, session.ErrLoopStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = http.StatusServiceUnavailable
	}

	if code == http.StatusInternalServerError {
		log.WithFields(log.Fields{"request_id": requestID(r.Context())}).Errorf("%s", err)
	}

	writeJSON(w, code, body)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.host.Status(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.DoNotReference = true

	writeJSON(w, http.StatusOK, reflector.Reflect(&session.Status{}))
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	action := session.Action(chi.URLParam(r, "action"))

	if !action.Valid() {
		names := lo.Map(session.Actions(), func(a session.Action, _ int) string { return string(a) })
		sort.Slice(names, func(i, j int) bool {
			return levenshtein.Distance(string(action), names[i]) < levenshtein.Distance(string(action), names[j])
		})

		writeJSON(w, http.StatusNotFound, Envelope{
			"error":      fmt.Sprintf("unknown action %q", action),
			"suggestion": names[0],
		})
		return
	}

	s.respond(w, r, func(c *session.Controller) error {
		return c.Dispatch(action)
	})
}

func (s *Server) postSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.respond(w, r, func(c *session.Controller) error {
		return c.Seek(*req.Position)
	})
}

func (s *Server) postKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.respond(w, r, func(c *session.Controller) error {
		return c.HandleKey(req.Key)
	})
}

func (s *Server) postLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if !s.decode(w, r, &req) {
		return
	}

	file, err := media.Open(req.Path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, Envelope{"error": err.Error()})
		return
	}

	s.respond(w, r, func(c *session.Controller) error {
		if err := c.Load(file); err != nil {
			return err
		}
		go func() {
			if err := history.Remember(file); err != nil {
				log.Warnf("remember %s: %s", file.Path, err)
			}
		}()
		return nil
	})
}

// postDrop receives a multipart upload in the "file" field. The declared part
// type decides acceptance; non-video parts are rejected without being stored.
func (s *Server) postDrop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.UploadLimit+maxJSONBody)

	reader, err := r.MultipartReader()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{"error": err.Error()})
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, Envelope{"error": `missing "file" field`})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Envelope{"error": err.Error()})
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		s.drop(w, r, part)
		return
	}
}

func (s *Server) drop(w http.ResponseWriter, r *http.Request, part *multipart.Part) {
	defer part.Close()

	name := filepath.Base(part.FileName())
	file := media.File{Name: name, Type: declaredType(part.Header.Get("Content-Type"))}
	if file.Type == "" {
		file.Type = media.TypeOf(name)
	}

	if file.IsVideo() {
		path := filepath.Join(s.opts.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
		n, err := filesystem.Save(path, part, s.opts.UploadLimit)
		if err != nil {
			code := http.StatusInternalServerError
			var maxBytes *http.MaxBytesError
			if errors.Is(err, filesystem.ErrTooLarge) || errors.As(err, &maxBytes) {
				code = http.StatusRequestEntityTooLarge
			}
			writeJSON(w, code, Envelope{"error": err.Error()})
			return
		}

		s.track(path)
		file.Path = path
		file.Size = n
	}

	s.respond(w, r, func(c *session.Controller) error {
		return c.LoadDropped(file)
	})
}

// declaredType strips parameters from a Content-Type header. Octet streams count as undeclared.
func declaredType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "application/octet-stream" {
		return ""
	}
	return mediaType
}
