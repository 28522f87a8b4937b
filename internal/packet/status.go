package packet

// StatusRequest is sent by the client to ask for a server-list status
// response (serverbound 0x00, no fields).
type StatusRequest struct{}

func (StatusRequest) PacketID() int32 { return 0x00 }

// StatusResponse carries the server-list JSON payload (clientbound 0x00).
type StatusResponse struct {
	JSON string `mc:"string"`
}

func (StatusResponse) PacketID() int32 { return 0x00 }

// PingRequest/PongResponse round-trip an opaque payload used for latency
// measurement (serverbound/clientbound 0x01).
type PingRequest struct {
	Payload int64 `mc:"i64"`
}

func (PingRequest) PacketID() int32 { return 0x01 }

type PongResponse struct {
	Payload int64 `mc:"i64"`
}

func (PongResponse) PacketID() int32 { return 0x01 }
