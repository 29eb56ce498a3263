// internal/modbus/decode.go
package modbus

import "github.com/MathiasJens3n/modbus-getter/internal/node"

// decode turns raw response bytes into a Response. goburrow already
// strips the byte-count prefix, so raw is packed bits (FC 1,2) or
// big-endian registers (FC 3,4).
func decode(fc uint8, raw []byte, qty uint16) node.Response {
	var resp node.Response

	switch fc {
	case 1, 2:
		resp.Bits = unpackBits(raw, int(qty))
		if qty == 1 {
			resp.Value = resp.Bits[0]
		} else {
			resp.Value = resp.Bits
		}
	case 3, 4:
		resp.Registers = unpackRegisters(raw)
		if qty == 1 && len(resp.Registers) == 1 {
			resp.Value = resp.Registers[0]
		} else {
			resp.Value = resp.Registers
		}
	}

	return resp
}

// ---- helpers (pure geometry) ----

func unpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			out[i] = false
			continue
		}
		out[i] = (data[byteIdx]&(1<<bitIdx) != 0)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
