package conn

import (
	"github.com/blockcraft/server/internal/broadcast"
	"github.com/blockcraft/server/internal/packet"
	"github.com/blockcraft/server/internal/protocol"
	"github.com/blockcraft/server/internal/world"
)

func decodePosition(loc int64) (x, y, z int64) {
	return protocol.DecodePosition(loc)
}

func encodePosition(pos world.BlockPos) int64 {
	return protocol.EncodePosition(int64(pos.X), int64(pos.Y), int64(pos.Z))
}

// offsetByFace returns the block position adjacent to target on the given
// face, where a placement lands.
func offsetByFace(target world.BlockPos, face int32) world.BlockPos {
	switch face {
	case packet.FaceBottom:
		return world.BlockPos{X: target.X, Y: target.Y - 1, Z: target.Z}
	case packet.FaceTop:
		return world.BlockPos{X: target.X, Y: target.Y + 1, Z: target.Z}
	case packet.FaceNorth:
		return world.BlockPos{X: target.X, Y: target.Y, Z: target.Z - 1}
	case packet.FaceSouth:
		return world.BlockPos{X: target.X, Y: target.Y, Z: target.Z + 1}
	case packet.FaceWest:
		return world.BlockPos{X: target.X - 1, Y: target.Y, Z: target.Z}
	case packet.FaceEast:
		return world.BlockPos{X: target.X + 1, Y: target.Y, Z: target.Z}
	default:
		return target
	}
}

func chunkLoadedFilter(c world.ChunkPos) broadcast.Filter {
	return broadcast.ChunkLoaded(c.X, c.Z)
}
