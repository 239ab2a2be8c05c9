package boxes

import (
	"strings"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

// Handler is the decoded payload of an hdlr box.
type Handler struct {
	Version     uint8  `json:"version"`
	Flags       uint32 `json:"flags"`
	HandlerType string `json:"handler_type"`
	Name        string `json:"name,omitempty"`
}

func DecodeHdlr(w *bmff.Window) (*Handler, error) {
	version, flags, err := readVersionFlags(w)
	if err != nil {
		return nil, err
	}
	// pre_defined u32.
	if err := w.FastForward(4); err != nil {
		return nil, err
	}
	handlerType, err := w.ReadString(4)
	if err != nil {
		return nil, err
	}
	// reserved 3*u32.
	if err := w.FastForward(12); err != nil {
		return nil, err
	}
	name, err := w.ReadString(w.Remaining())
	if err != nil {
		return nil, err
	}

	return &Handler{
		Version:     version,
		Flags:       flags,
		HandlerType: handlerType,
		Name:        strings.TrimRight(name, "\x00"),
	}, nil
}
