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

// Package nibbles implements a packed container for sequences of 4-bit
// values, two per byte, for use as trie paths and other dense small-integer
// sequences.
//
// Values at even indices occupy the high half of their byte, values at odd
// indices the low half:
//
//	HI_NIBBLE(b) = (b >> 4) & 0x0F
//	LO_NIBBLE(b) = b & 0x0F
//
// When the length is odd, the low half of the last byte is kept zero.
package nibbles

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndexOutOfBounds = errors.New("nibbles: index out of bounds")
	ErrValueOutOfRange  = errors.New("nibbles: value does not fit in 4 bits")
	ErrInvalidLength    = errors.New("nibbles: length inconsistent with byte count")
	ErrOddLength        = errors.New("nibbles: odd number of nibbles")
)

// Nibbles stores length nibbles packed into data, two per byte.
// It is a plain value type: not safe for concurrent mutation.
type Nibbles struct {
	data   []byte
	length int
}

// New creates an empty container.
func New() *Nibbles {
	return &Nibbles{}
}

// FromBytes wraps an already packed byte slice holding length nibbles.
// It takes ownership of data. Returns ErrInvalidLength unless
// len(data) == ceil(length/2). The padding half of the last byte, if any,
// is zeroed.
func FromBytes(data []byte, length int) (*Nibbles, error) {
	if length < 0 || len(data) != bytesLen(length) {
		return nil, fmt.Errorf("%w: %d bytes cannot hold exactly %d nibbles", ErrInvalidLength, len(data), length)
	}
	if length%2 == 1 {
		data[len(data)-1] &= 0xf0
	}
	return &Nibbles{data: data, length: length}, nil
}

// FromAllBytes wraps a packed byte slice in which every byte carries two
// nibbles, so the result has 2*len(data) elements. It takes ownership of
// data.
func FromAllBytes(data []byte) *Nibbles {
	return &Nibbles{data: data, length: 2 * len(data)}
}

// Len returns the number of nibbles stored.
func (n *Nibbles) Len() int { return n.length }

func (n *Nibbles) IsEmpty() bool { return n.length == 0 }

// Get returns the nibble at index i, in [0,15].
func (n *Nibbles) Get(i int) (byte, error) {
	if i < 0 || i >= n.length {
		return 0, fmt.Errorf("%w: len is %d, index is %d", ErrIndexOutOfBounds, n.length, i)
	}
	b := n.data[i/2]
	if i%2 == 0 {
		return b >> 4, nil
	}
	return b & 0x0f, nil
}

// Set overwrites the nibble at index i. The sibling nibble sharing the same
// byte is untouched.
func (n *Nibbles) Set(i int, v byte) error {
	if i < 0 || i >= n.length {
		return fmt.Errorf("%w: len is %d, index is %d", ErrIndexOutOfBounds, n.length, i)
	}
	if v > 0x0f {
		return fmt.Errorf("%w: %d", ErrValueOutOfRange, v)
	}
	if i%2 == 0 {
		n.data[i/2] = n.data[i/2]&0x0f | v<<4
	} else {
		n.data[i/2] = n.data[i/2]&0xf0 | v
	}
	return nil
}

// Push appends one nibble.
func (n *Nibbles) Push(v byte) error {
	if v > 0x0f {
		return fmt.Errorf("%w: %d", ErrValueOutOfRange, v)
	}
	if n.length%2 == 0 {
		n.data = append(n.data, v<<4)
	} else {
		n.data[len(n.data)-1] = n.data[len(n.data)-1]&0xf0 | v
	}
	n.length++
	return nil
}

// Bytes exposes the packed backing bytes together with the nibble count.
// Both must travel together: an even count means no trailing padding, an odd
// count means the low half of the last byte is padding. The returned slice
// must not be mutated while the container is in use.
func (n *Nibbles) Bytes() ([]byte, int) {
	return n.data, n.length
}

// Clone returns a deep copy.
func (n *Nibbles) Clone() *Nibbles {
	data := make([]byte, len(n.data))
	copy(data, n.data)
	return &Nibbles{data: data, length: n.length}
}

// Equal reports whether both containers hold the same sequence. Byte
// comparison is enough because the padding nibble is always zero.
func (n *Nibbles) Equal(other *Nibbles) bool {
	if n.length != other.length {
		return false
	}
	return string(n.data) == string(other.data)
}

// EqualSlice compares against an unpacked slice holding one nibble per byte.
func (n *Nibbles) EqualSlice(vals []byte) bool {
	if n.length != len(vals) {
		return false
	}
	for i, v := range vals {
		got, _ := n.Get(i)
		if got != v {
			return false
		}
	}
	return true
}

func (n *Nibbles) String() string {
	var sb strings.Builder
	sb.WriteString("Nibbles [")
	for i := 0; i < n.length; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := n.Get(i)
		fmt.Fprintf(&sb, "%x", v)
	}
	sb.WriteString("]")
	return sb.String()
}

func bytesLen(nibbleCount int) int {
	return (nibbleCount + 1) / 2
}
