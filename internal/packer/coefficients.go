package packer

import "fmt"

// zigzag maps a signed integer to an unsigned one so that small-magnitude
// values (positive or negative) map to small unsigned values, the
// precondition for any variable-length code to help.
func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// riceK picks the Golomb-Rice parameter for a coefficient of the given
// native bit width: this module's "static Huffman" back-end (the Coder enum
// names BAC / Huffman / strongSwan; original_source's packer.h leaves the
// exact code unspecified) is rendered as a fixed-k Rice code, which is the
// textbook static near-optimal prefix code for the geometric-like
// distributions that BLISS-B/Dilithium coefficients follow.
func riceK(width int) int {
	k := width - 3
	if k < 0 {
		k = 0
	}
	return k
}

// writeCoded encodes a zigzagged value with a fixed-k Rice code: a unary
// quotient (q ones then a zero) followed by k remainder bits.
func writeCoded(p *Packer, u uint64, k int) error {
	q := u >> uint(k)
	for q > 0 {
		if err := p.Write(1, 1); err != nil {
			return err
		}
		q--
	}
	if err := p.Write(0, 1); err != nil {
		return err
	}
	return p.Write(uint32(u&((1<<uint(k))-1)), k)
}

func readCoded(p *Packer, k int) (uint64, error) {
	var q uint64
	for {
		var bit uint32
		if err := p.Read(&bit, 1); err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		q++
	}
	var rem uint32
	if err := p.Read(&rem, k); err != nil {
		return 0, err
	}
	return (q << uint(k)) | uint64(rem), nil
}

// EncodePoly writes n coefficients (each representable in `width` bits, with
// sign extension applied on decode if signed is true) through p, applying
// the Packer's configured Coder. This implements the poly_encode_{8,16,32}
// family uniformly across widths.
func EncodePoly(p *Packer, coeffs []int64, width int, signed bool) error {
	for _, v := range coeffs {
		switch p.coder {
		case None:
			raw := uint64(v) & ((1 << uint(width)) - 1)
			if err := p.Write(uint32(raw), width); err != nil {
				return err
			}
		case BAC, BACRLE, HuffmanStatic, StrongSwan:
			var u uint64
			if signed {
				u = zigzagEncode(v)
			} else {
				u = uint64(v)
			}
			if err := writeCoded(p, u, riceK(width)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("packer: unknown coder %d", p.coder)
		}
	}
	return nil
}

// DecodePoly reads n coefficients written by EncodePoly with the same
// (width, signed, coder) parameters.
func DecodePoly(p *Packer, n, width int, signed bool) ([]int64, error) {
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		switch p.coder {
		case None:
			var raw uint32
			if err := p.Read(&raw, width); err != nil {
				return nil, err
			}
			v := int64(raw)
			if signed && raw&(1<<uint(width-1)) != 0 {
				v -= 1 << uint(width)
			}
			out[i] = v
		case BAC, BACRLE, HuffmanStatic, StrongSwan:
			u, err := readCoded(p, riceK(width))
			if err != nil {
				return nil, err
			}
			if signed {
				out[i] = zigzagDecode(u)
			} else {
				out[i] = int64(u)
			}
		default:
			return nil, fmt.Errorf("packer: unknown coder %d", p.coder)
		}
	}
	return out, nil
}
