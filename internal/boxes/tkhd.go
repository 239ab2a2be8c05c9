package boxes

import (
	"fmt"
	"time"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

// TrackHeader is the decoded payload of a tkhd box.
type TrackHeader struct {
	Version          uint8     `json:"version"`
	Flags            uint32    `json:"flags"`
	CreationTime     time.Time `json:"creation_time"`
	ModificationTime time.Time `json:"modification_time"`
	TrackID          uint32    `json:"track_id"`
	Duration         uint64    `json:"duration"`
	Layer            int16     `json:"layer"`
	AlternateGroup   int16     `json:"alternate_group"`
	Volume           float64   `json:"volume"`
	Width            float64   `json:"width"`
	Height           float64   `json:"height"`
}

func DecodeTkhd(w *bmff.Window) (*TrackHeader, error) {
	version, flags, err := readVersionFlags(w)
	if err != nil {
		return nil, err
	}

	var (
		creation, modification, duration uint64
		trackID                          uint32
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
		if trackID, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		if err = w.FastForward(4); err != nil { // reserved
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
		if trackID, err = w.ReadUint32(bmff.BigEndian); err != nil {
			return nil, err
		}
		if err = w.FastForward(4); err != nil { // reserved
			return nil, err
		}
		if duration, err = w.ReadUint64(bmff.BigEndian); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported tkhd version %d", version)
	}

	// reserved 2*u32.
	if err := w.FastForward(8); err != nil {
		return nil, err
	}

	layer, err := readUint16(w)
	if err != nil {
		return nil, err
	}
	altGroup, err := readUint16(w)
	if err != nil {
		return nil, err
	}
	volRaw, err := readUint16(w)
	if err != nil {
		return nil, err
	}

	// reserved u16, matrix 9*u32.
	if err := w.FastForward(2 + 36); err != nil {
		return nil, err
	}

	widthRaw, err := w.ReadUint32(bmff.BigEndian)
	if err != nil {
		return nil, err
	}
	heightRaw, err := w.ReadUint32(bmff.BigEndian)
	if err != nil {
		return nil, err
	}

	return &TrackHeader{
		Version:          version,
		Flags:            flags,
		CreationTime:     mp4Time(creation),
		ModificationTime: mp4Time(modification),
		TrackID:          trackID,
		Duration:         duration,
		Layer:            int16(layer),
		AlternateGroup:   int16(altGroup),
		Volume:           fixed88(volRaw),
		Width:            fixed1616(widthRaw),
		Height:           fixed1616(heightRaw),
	}, nil
}
