// Package api serves box probing over HTTP for local media files.
package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mp4probe/internal/boxes"
	"github.com/samcharles93/mp4probe/internal/logger"
	"github.com/samcharles93/mp4probe/pkg/bmff"
)

type Server struct {
	log logger.Logger
}

func NewServer(log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/probe", s.handleProbe)
	e.POST("/v1/inspect", s.handleInspect)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProbe(c *echo.Context) error {
	req, err := decodeJSON[ProbeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.File == "" {
		return writeBadRequest(c, "file is required")
	}
	if (req.Path == "") == (req.UUID == "") {
		return writeBadRequest(c, "exactly one of path or uuid is required")
	}

	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID, "file", req.File)

	store, err := bmff.OpenFile(req.File)
	if err != nil {
		log.Warn("open failed", "error", err)
		return writeProbeError(c, err)
	}
	defer func() { _ = store.Close() }()

	root, err := bmff.NewWindow(store)
	if err != nil {
		return writeProbeError(c, err)
	}

	var (
		sec  *bmff.Window
		last bmff.BoxType
	)
	if req.UUID != "" {
		u, err := uuid.Parse(req.UUID)
		if err != nil {
			return writeBadRequest(c, "uuid: "+err.Error())
		}
		last = bmff.TypeUUID
		sec, err = bmff.FindUUIDBox(root, u)
		if err != nil {
			log.Info("probe missed", "uuid", u.String(), "error", err)
			return writeProbeError(c, err)
		}
	} else {
		path, err := bmff.ParseBoxPath(req.Path)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		last = path[len(path)-1]
		sec, err = bmff.Find(root, path...)
		if err != nil {
			log.Info("probe missed", "path", req.Path, "error", err)
			return writeProbeError(c, err)
		}
	}

	result := BoxResult{
		Type:   last.String(),
		Offset: sec.Offset(),
		Length: sec.Limit(),
	}
	if payload, ok, derr := boxes.Decode(last, sec); derr != nil {
		log.Warn("payload decode failed", "type", result.Type, "error", derr)
	} else if ok {
		result.Payload = payload
	}

	log.Info("probe served", "type", result.Type, "offset", result.Offset, "length", result.Length)
	return writeJSON(c, http.StatusOK, ProbeResponse{
		RequestID: requestID,
		File:      req.File,
		Box:       result,
	})
}

func (s *Server) handleInspect(c *echo.Context) error {
	req, err := decodeJSON[InspectRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.File == "" {
		return writeBadRequest(c, "file is required")
	}

	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID, "file", req.File)

	store, err := bmff.OpenFile(req.File)
	if err != nil {
		log.Warn("open failed", "error", err)
		return writeProbeError(c, err)
	}
	defer func() { _ = store.Close() }()

	w, err := bmff.NewWindow(store)
	if err != nil {
		return writeProbeError(c, err)
	}
	if req.Path != "" {
		path, perr := bmff.ParseBoxPath(req.Path)
		if perr != nil {
			return writeBadRequest(c, perr.Error())
		}
		w, err = bmff.Find(w, path...)
		if err != nil {
			log.Info("inspect missed", "path", req.Path, "error", err)
			return writeProbeError(c, err)
		}
	}

	base := w.Offset()
	entries := []InspectEntry{}
	err = bmff.Walk(w, func(info bmff.BoxInfo) error {
		entry := InspectEntry{
			Type:          info.Type.String(),
			Offset:        base + info.Offset,
			PayloadLength: info.PayloadLen,
			Large:         info.Large,
		}
		if info.UUID != nil {
			entry.UUID = info.UUID.String()
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		log.Info("inspect failed", "error", err)
		return writeProbeError(c, err)
	}

	log.Info("inspect served", "boxes", len(entries))
	return writeJSON(c, http.StatusOK, InspectResponse{
		RequestID: requestID,
		File:      req.File,
		Boxes:     entries,
	})
}
