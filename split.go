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

import "fmt"

// Split truncates the container to its first i nibbles and returns the rest
// as a new container. Splitting at i == Len() leaves the receiver unchanged
// and returns an empty tail. Returns ErrIndexOutOfBounds when i > Len().
func (n *Nibbles) Split(i int) (*Nibbles, error) {
	switch {
	case i < 0 || i > n.length:
		return nil, fmt.Errorf("%w: len is %d, split index is %d", ErrIndexOutOfBounds, n.length, i)
	case i == n.length:
		return New(), nil
	case i%2 == 0:
		return n.splitEven(i), nil
	default:
		return n.splitOdd(i), nil
	}
}

// splitEven cuts on a byte boundary, so the tail is a plain byte copy.
func (n *Nibbles) splitEven(i int) *Nibbles {
	tail := &Nibbles{
		data:   make([]byte, len(n.data)-i/2),
		length: n.length - i,
	}
	copy(tail.data, n.data[i/2:])

	n.data = n.data[:i/2]
	n.length = i
	return tail
}

// splitOdd cuts through the middle of byte i/2: its high half stays with the
// receiver, its low half becomes the first nibble of the tail. The tail is
// built with an overlap copy; the last nibble of the receiver's old contents
// is carried over only when the tail length is odd.
func (n *Nibbles) splitOdd(i int) *Nibbles {
	tailLen := n.length - i
	tail := &Nibbles{data: make([]byte, 0, bytesLen(tailLen))}
	overlapCopy(n.data[i/2:], tail, tailLen%2 == 1)

	n.data = n.data[:i/2+1]
	// Re-zero the padding half of the new last byte.
	n.data[i/2] &= 0xf0
	n.length = i
	return tail
}

// Join appends other to the receiver. When the receiver's length is odd the
// two sequences do not align on a byte boundary and other is re-packed with
// an overlap copy.
func (n *Nibbles) Join(other *Nibbles) {
	if n == other {
		other = other.Clone()
	}
	if n.length%2 == 0 {
		n.data = append(n.data, other.data...)
		n.length += other.length
		return
	}
	if other.length == 0 {
		return
	}

	// Move one nibble over to make the receiver byte-aligned, then
	// overlap-copy the rest.
	first, _ := other.Get(0)
	_ = n.Push(first)
	overlapCopy(other.data, n, other.length%2 == 0)
}

// overlapCopy shifts the packed nibbles of src left by one position and
// appends them to dst: each output byte pairs the low half of src[j] with
// the high half of src[j+1]. The low half of the final byte is appended only
// when takeLast is set.
func overlapCopy(src []byte, dst *Nibbles, takeLast bool) {
	for j := 0; j+1 < len(src); j++ {
		dst.data = append(dst.data, src[j]<<4|src[j+1]>>4)
		dst.length += 2
	}
	if takeLast {
		dst.data = append(dst.data, src[len(src)-1]<<4)
		dst.length++
	}
}
