package boxes

import "github.com/samcharles93/mp4probe/pkg/bmff"

// FileType is the decoded payload of an ftyp box.
type FileType struct {
	MajorBrand       string   `json:"major_brand"`
	MinorVersion     uint32   `json:"minor_version"`
	CompatibleBrands []string `json:"compatible_brands,omitempty"`
}

func DecodeFtyp(w *bmff.Window) (*FileType, error) {
	major, err := w.ReadString(4)
	if err != nil {
		return nil, err
	}
	minor, err := w.ReadUint32(bmff.BigEndian)
	if err != nil {
		return nil, err
	}
	var brands []string
	for w.Remaining() >= 4 {
		b, err := w.ReadString(4)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return &FileType{
		MajorBrand:       major,
		MinorVersion:     minor,
		CompatibleBrands: brands,
	}, nil
}
