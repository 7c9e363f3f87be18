/*
   Copyright 2025 The Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package nibbles

import (
	"fmt"

	"github.com/holiman/uint256"
)

// compactParityBit marks an odd nibble count in the CompactKey header byte.
// The remaining header bits are reserved and must be zero.
const compactParityBit = 0x01

// CompactKey serializes the sequence into a self-delimiting byte string: one
// header byte recording the length parity, followed by the packed nibbles.
// Unlike Bytes, the result can be stored or transmitted on its own - the
// nibble count is recoverable from the buffer alone.
func (n *Nibbles) CompactKey() []byte {
	buf := make([]byte, 1+len(n.data))
	buf[0] = byte(n.length % 2)
	copy(buf[1:], n.data)
	return buf
}

// FromCompactKey parses a buffer produced by CompactKey. The buffer is
// copied, not retained. Returns ErrInvalidLength on a malformed buffer:
// empty input, reserved header bits set, an odd-parity header with no key
// bytes, or nonzero padding bits on an odd-length key.
func FromCompactKey(buf []byte) (*Nibbles, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty compact key", ErrInvalidLength)
	}
	if buf[0]&^compactParityBit != 0 {
		return nil, fmt.Errorf("%w: reserved header bits set in %#02x", ErrInvalidLength, buf[0])
	}
	parity := int(buf[0] & compactParityBit)
	if parity == 1 && len(buf) == 1 {
		return nil, fmt.Errorf("%w: odd parity with no key bytes", ErrInvalidLength)
	}
	if parity == 1 && buf[len(buf)-1]&0x0f != 0 {
		return nil, fmt.Errorf("%w: nonzero padding in odd-length key", ErrInvalidLength)
	}
	data := make([]byte, len(buf)-1)
	copy(data, buf[1:])
	return &Nibbles{data: data, length: 2*len(data) - parity}, nil
}

// FromKeybytes unpacks a whole-byte key, such as a hashed account or storage
// key, into its 2*len(key) nibbles. The key is copied, not retained.
func FromKeybytes(key []byte) *Nibbles {
	data := make([]byte, len(key))
	copy(data, key)
	return FromAllBytes(data)
}

// Keybytes re-packs an even-length sequence into whole key bytes. Returns
// ErrOddLength otherwise, since the missing nibble cannot be represented.
func (n *Nibbles) Keybytes() ([]byte, error) {
	if n.length%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddLength, n.length)
	}
	key := make([]byte, len(n.data))
	copy(key, n.data)
	return key, nil
}

// FromUint256 returns the 64-nibble big-endian hex path of a 256-bit key.
func FromUint256(v *uint256.Int) *Nibbles {
	b := v.Bytes32()
	return FromAllBytes(b[:])
}

// CommonPrefixLen returns the number of leading nibbles shared by n and
// other.
func (n *Nibbles) CommonPrefixLen(other *Nibbles) int {
	short := n.length
	if other.length < short {
		short = other.length
	}
	for i := 0; i < short/2; i++ {
		if n.data[i] != other.data[i] {
			if n.data[i]>>4 != other.data[i]>>4 {
				return 2 * i
			}
			return 2*i + 1
		}
	}
	// An odd bound leaves one half-byte to compare.
	if short%2 == 1 && n.data[short/2]>>4 != other.data[short/2]>>4 {
		return short - 1
	}
	return short
}
