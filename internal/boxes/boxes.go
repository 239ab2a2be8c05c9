// Package boxes decodes the payloads of well-known ISO-BMFF boxes into
// plain structs. Every decoder reads through a bmff.Window scoped to the
// box payload, so a truncated or lying payload surfaces as a window
// error rather than garbage values.
package boxes

import (
	"time"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

// mp4EpochOffset is the number of seconds between the ISO-BMFF epoch
// (1904-01-01T00:00:00Z) and the Unix epoch.
const mp4EpochOffset = 2082844800

func mp4Time(secs uint64) time.Time {
	return time.Unix(int64(secs)-mp4EpochOffset, 0).UTC()
}

// readVersionFlags consumes the version/flags word that leads every
// full box.
func readVersionFlags(w *bmff.Window) (uint8, uint32, error) {
	vf, err := w.ReadUint32(bmff.BigEndian)
	if err != nil {
		return 0, 0, err
	}
	return uint8(vf >> 24), vf & 0x00ffffff, nil
}

func readUint16(w *bmff.Window) (uint16, error) {
	b, err := w.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func fixed1616(v uint32) float64 { return float64(v) / 65536 }
func fixed88(v uint16) float64   { return float64(v) / 256 }

// Decode decodes the payload in w for a known box type. ok reports
// whether a decoder exists for typ; when it is false the payload is
// left untouched for the caller to handle raw.
func Decode(typ bmff.BoxType, w *bmff.Window) (v any, ok bool, err error) {
	switch typ {
	case bmff.TypeFtyp:
		v, err := DecodeFtyp(w)
		return v, true, err
	case bmff.TypeMvhd:
		v, err := DecodeMvhd(w)
		return v, true, err
	case bmff.TypeTkhd:
		v, err := DecodeTkhd(w)
		return v, true, err
	case bmff.TypeHdlr:
		v, err := DecodeHdlr(w)
		return v, true, err
	default:
		return nil, false, nil
	}
}
