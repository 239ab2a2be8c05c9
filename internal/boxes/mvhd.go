package boxes

import (
	"fmt"
	"time"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

// MovieHeader is the decoded payload of an mvhd box.
type MovieHeader struct {
	Version          uint8     `json:"version"`
	Flags            uint32    `json:"flags"`
	CreationTime     time.Time `json:"creation_time"`
	ModificationTime time.Time `json:"modification_time"`
	Timescale        uint32    `json:"timescale"`
	Duration         uint64    `json:"duration"`
	DurationSeconds  float64   `json:"duration_seconds"`
	Rate             float64   `json:"rate"`
	Volume           float64   `json:"volume"`
	NextTrackID      uint32    `json:"next_track_id"`
}

func DecodeMvhd(w *bmff.Window) (*MovieHeader, error) {
	version, flags, err := readVersionFlags(w)
	if err != nil {
		return nil, err
	}

	var (
		creation, modification, duration uint64
		timescale                        uint32
	)
	switch version {
	case 0:
		var c, m, d uint32
		if c, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		if m, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		if timescale, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		if d, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		creation, modification, duration = uint64(c), uint64(m), uint64(d)
	case 1:
		if creation, err = w.ReadUint64(bmff.BigEndian); err != nil {
			return nil, err
		}
		if modification, err = w.ReadUint64(bmff.BigEndian); err != nil {
			return nil, err
		}
		if timescale, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		if duration, err = w.ReadUint64(bmff.BigEndian); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported mvhd version %d", version)
	}

	rateRaw, err := w.ReadUint32(bmff.BigEndian)
	if err != nil {
		return nil, err
	}
	volRaw, err := readUint16(w)
	if err != nil {
		return nil, err
	}

	// reserved u16, reserved 2*u32, matrix 9*u32, pre_defined 6*u32.
	if err := w.FastForward(2 + 8 + 36 + 24); err != nil {
		return nil, err
	}

	nextTrackID, err := w.ReadUint32(bmff.BigEndian)
	if err != nil {
		return nil, err
	}

	h := &MovieHeader{
		Version:          version,
		Flags:            flags,
		CreationTime:     mp4Time(creation),
		ModificationTime: mp4Time(modification),
		Timescale:        timescale,
		Duration:         duration,
		Rate:             fixed1616(rateRaw),
		Volume:           fixed88(volRaw),
		NextTrackID:      nextTrackID,
	}
	if timescale > 0 {
		h.DurationSeconds = float64(duration) / float64(timescale)
	}
	return h, nil
}
