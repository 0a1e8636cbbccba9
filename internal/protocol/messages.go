package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
	// Seed overrides the configured world seed for this connection only.
	Seed *int64 `json:"seed,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	SessionID       string     `json:"session_id"`
	Seed            int64      `json:"seed"`
	Layers          []LayerRef `json:"layers"`
}

type LayerRef struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Octaves []int  `json:"octaves,omitempty"`
}

// SAMPLE (client -> server)
type SampleReq struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	ID              string       `json:"id,omitempty"`
	Layer           string       `json:"layer"`
	Points          [][3]float64 `json:"points"`
}

// SAMPLE_RESULT (server -> client). Values are in request order.
type SampleResp struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	ID              string     `json:"id,omitempty"`
	Layer           string     `json:"layer"`
	Values          []float64  `json:"values"`
	Cells           [][3]int32 `json:"cells,omitempty"`
}

// GRID (client -> server)
type GridReq struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`
	Layer           string `json:"layer"`
	X0              int    `json:"x0"`
	Z0              int    `json:"z0"`
	Y               int    `json:"y"`
	W               int    `json:"w"`
	H               int    `json:"h"`
	Step            int    `json:"step,omitempty"`
}

// GRID_RESULT (server -> client). Values are row-major with z outer.
type GridResp struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	ID              string     `json:"id,omitempty"`
	Layer           string     `json:"layer"`
	Kind            string     `json:"kind"`
	W               int        `json:"w"`
	H               int        `json:"h"`
	Step            int        `json:"step"`
	Values          []float64  `json:"values"`
	Cells           [][3]int32 `json:"cells,omitempty"`
	Digest          string     `json:"digest"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

func NewError(id, code, message string) ErrorMsg {
	return ErrorMsg{
		Type:            TypeError,
		ProtocolVersion: Version,
		ID:              id,
		Code:            code,
		Message:         message,
	}
}
