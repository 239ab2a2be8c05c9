package boxes

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

func newWindow(t *testing.T, payload []byte) *bmff.Window {
	t.Helper()
	w, err := bmff.NewWindow(bmff.NewMemStore(payload))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	return w
}

func TestDecodeMvhdVersion0(t *testing.T) {
	t.Parallel()

	var b []byte
	b = binary.BigEndian.AppendUint32(b, 0)                  // version 0, flags 0
	b = binary.BigEndian.AppendUint32(b, mp4EpochOffset)     // creation: unix epoch
	b = binary.BigEndian.AppendUint32(b, mp4EpochOffset+60)  // modification
	b = binary.BigEndian.AppendUint32(b, 600)                // timescale
	b = binary.BigEndian.AppendUint32(b, 1800)               // duration: 3s
	b = binary.BigEndian.AppendUint32(b, 0x00010000)         // rate 1.0
	b = append(b, 0x01, 0x00)                                // volume 1.0
	b = append(b, make([]byte, 70)...)                       // reserved+matrix+pre_defined
	b = binary.BigEndian.AppendUint32(b, 2)                  // next track id
	if len(b) != 100 {
		t.Fatalf("mvhd v0 payload length: got %d want 100", len(b))
	}

	h, err := DecodeMvhd(newWindow(t, b))
	if err != nil {
		t.Fatalf("decode mvhd: %v", err)
	}
	if h.Version != 0 || h.Flags != 0 {
		t.Fatalf("version/flags mismatch: %+v", h)
	}
	if !h.CreationTime.Equal(time.Unix(0, 0)) {
		t.Fatalf("creation time mismatch: got %v", h.CreationTime)
	}
	if !h.ModificationTime.Equal(time.Unix(60, 0)) {
		t.Fatalf("modification time mismatch: got %v", h.ModificationTime)
	}
	if h.Timescale != 600 || h.Duration != 1800 {
		t.Fatalf("timescale/duration mismatch: %+v", h)
	}
	if h.DurationSeconds != 3 {
		t.Fatalf("duration seconds mismatch: got %v want 3", h.DurationSeconds)
	}
	if h.Rate != 1.0 || h.Volume != 1.0 {
		t.Fatalf("rate/volume mismatch: rate=%v volume=%v", h.Rate, h.Volume)
	}
	if h.NextTrackID != 2 {
		t.Fatalf("next track id mismatch: got %d want 2", h.NextTrackID)
	}
}

func TestDecodeMvhdVersion1(t *testing.T) {
	t.Parallel()

	var b []byte
	b = binary.BigEndian.AppendUint32(b, 1<<24)
	b = binary.BigEndian.AppendUint64(b, mp4EpochOffset)
	b = binary.BigEndian.AppendUint64(b, mp4EpochOffset)
	b = binary.BigEndian.AppendUint32(b, 90000)
	b = binary.BigEndian.AppendUint64(b, 450000)
	b = binary.BigEndian.AppendUint32(b, 0x00018000) // rate 1.5
	b = append(b, 0x00, 0x80)                        // volume 0.5
	b = append(b, make([]byte, 70)...)
	b = binary.BigEndian.AppendUint32(b, 7)

	h, err := DecodeMvhd(newWindow(t, b))
	if err != nil {
		t.Fatalf("decode mvhd v1: %v", err)
	}
	if h.Version != 1 {
		t.Fatalf("version mismatch: got %d want 1", h.Version)
	}
	if h.Timescale != 90000 || h.Duration != 450000 || h.DurationSeconds != 5 {
		t.Fatalf("duration mismatch: %+v", h)
	}
	if h.Rate != 1.5 || h.Volume != 0.5 {
		t.Fatalf("rate/volume mismatch: rate=%v volume=%v", h.Rate, h.Volume)
	}
}

func TestDecodeMvhdTruncated(t *testing.T) {
	t.Parallel()

	b := binary.BigEndian.AppendUint32(nil, 0)
	b = binary.BigEndian.AppendUint32(b, mp4EpochOffset)

	if _, err := DecodeMvhd(newWindow(t, b)); err == nil {
		t.Fatalf("truncated mvhd decoded without error")
	}
}

func TestDecodeMvhdUnsupportedVersion(t *testing.T) {
	t.Parallel()

	b := binary.BigEndian.AppendUint32(nil, 2<<24)
	b = append(b, make([]byte, 96)...)
	if _, err := DecodeMvhd(newWindow(t, b)); err == nil {
		t.Fatalf("mvhd version 2 decoded without error")
	}
}

func TestDecodeTkhdVersion1(t *testing.T) {
	t.Parallel()

	var b []byte
	b = binary.BigEndian.AppendUint32(b, 1<<24|0x000007) // version 1, enabled/in-movie/in-preview
	b = binary.BigEndian.AppendUint64(b, mp4EpochOffset)
	b = binary.BigEndian.AppendUint64(b, mp4EpochOffset)
	b = binary.BigEndian.AppendUint32(b, 3) // track id
	b = append(b, make([]byte, 4)...)       // reserved
	b = binary.BigEndian.AppendUint64(b, 12345)
	b = append(b, make([]byte, 8)...) // reserved
	b = append(b, 0x00, 0x01)         // layer 1
	b = append(b, 0xff, 0xff)         // alternate group -1
	b = append(b, 0x01, 0x00)         // volume 1.0
	b = append(b, make([]byte, 2+36)...)
	b = binary.BigEndian.AppendUint32(b, 1920<<16)
	b = binary.BigEndian.AppendUint32(b, 1080<<16)

	h, err := DecodeTkhd(newWindow(t, b))
	if err != nil {
		t.Fatalf("decode tkhd: %v", err)
	}
	if h.Version != 1 || h.Flags != 7 {
		t.Fatalf("version/flags mismatch: %+v", h)
	}
	if h.TrackID != 3 || h.Duration != 12345 {
		t.Fatalf("track/duration mismatch: %+v", h)
	}
	if h.Layer != 1 || h.AlternateGroup != -1 {
		t.Fatalf("layer/group mismatch: %+v", h)
	}
	if h.Width != 1920 || h.Height != 1080 {
		t.Fatalf("dimensions mismatch: width=%v height=%v", h.Width, h.Height)
	}
}

func TestDecodeHdlr(t *testing.T) {
	t.Parallel()

	var b []byte
	b = binary.BigEndian.AppendUint32(b, 0)
	b = append(b, make([]byte, 4)...) // pre_defined
	b = append(b, "vide"...)
	b = append(b, make([]byte, 12)...) // reserved
	b = append(b, "VideoHandler\x00"...)

	h, err := DecodeHdlr(newWindow(t, b))
	if err != nil {
		t.Fatalf("decode hdlr: %v", err)
	}
	if h.HandlerType != "vide" {
		t.Fatalf("handler type mismatch: got %q", h.HandlerType)
	}
	if h.Name != "VideoHandler" {
		t.Fatalf("handler name mismatch: got %q", h.Name)
	}
}

func TestDecodeFtyp(t *testing.T) {
	t.Parallel()

	var b []byte
	b = append(b, "isom"...)
	b = binary.BigEndian.AppendUint32(b, 512)
	b = append(b, "isomiso2avc1"...)

	ft, err := DecodeFtyp(newWindow(t, b))
	if err != nil {
		t.Fatalf("decode ftyp: %v", err)
	}
	if ft.MajorBrand != "isom" || ft.MinorVersion != 512 {
		t.Fatalf("brand mismatch: %+v", ft)
	}
	if len(ft.CompatibleBrands) != 3 || ft.CompatibleBrands[2] != "avc1" {
		t.Fatalf("compatible brands mismatch: %v", ft.CompatibleBrands)
	}
}

func TestDecodeDispatch(t *testing.T) {
	t.Parallel()

	v, ok, err := Decode(bmff.TypeFree, newWindow(t, []byte("junk")))
	if err != nil {
		t.Fatalf("decode free: %v", err)
	}
	if ok || v != nil {
		t.Fatalf("free should have no decoder: ok=%v v=%v", ok, v)
	}

	var b []byte
	b = append(b, "qt  "...)
	b = binary.BigEndian.AppendUint32(b, 0)
	v, ok, err = Decode(bmff.TypeFtyp, newWindow(t, b))
	if err != nil {
		t.Fatalf("decode ftyp via dispatch: %v", err)
	}
	if !ok {
		t.Fatalf("ftyp decoder missing")
	}
	if ft := v.(*FileType); ft.MajorBrand != "qt  " {
		t.Fatalf("dispatch result mismatch: %+v", ft)
	}
}
