package api

// ProbeRequest asks the server to locate one box in a local file,
// either by a slash-separated path of 4-character types or by the
// 128-bit type of an extended ("uuid") box. Exactly one of Path and
// UUID must be set.
type ProbeRequest struct {
	File string `json:"file"`
	Path string `json:"path,omitempty"`
	UUID string `json:"uuid,omitempty"`
}

// BoxResult describes a located box payload. Offset and Length are
// absolute file positions of the payload, not the header. Payload is
// present when the box type has a registered decoder.
type BoxResult struct {
	Type    string `json:"type"`
	Offset  int64  `json:"offset"`
	Length  int64  `json:"length"`
	Payload any    `json:"payload,omitempty"`
}

type ProbeResponse struct {
	RequestID string    `json:"request_id"`
	File      string    `json:"file"`
	Box       BoxResult `json:"box"`
}

// InspectRequest asks for a sibling listing, at the top level or inside
// the box reached by Path.
type InspectRequest struct {
	File string `json:"file"`
	Path string `json:"path,omitempty"`
}

type InspectEntry struct {
	Type          string `json:"type"`
	Offset        int64  `json:"offset"`
	PayloadLength int64  `json:"payload_length"`
	Large         bool   `json:"large,omitempty"`
	UUID          string `json:"uuid,omitempty"`
}

type InspectResponse struct {
	RequestID string         `json:"request_id"`
	File      string         `json:"file"`
	Boxes     []InspectEntry `json:"boxes"`
}

// APIError is the error envelope returned for every failure.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
