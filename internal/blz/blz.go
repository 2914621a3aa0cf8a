// Package blz implements the Bottom LZ container format used for the
// archived texture resources: an LZSS variant coded backwards from the end
// of the file, with an incompressible head stored raw and a trailing header.
package blz

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// rawMaxim caps the decoded size at 16MB - 1 (3-byte length field).
	rawMaxim = 0x00FFFFFF

	blzShift     = 1
	blzMask      = 0x80
	blzThreshold = 2

	// maxOffset is the farthest back-reference distance, (1 << 12) + 2.
	maxOffset = 0x1002
	// maxCoded is the longest match a token can encode, (1 << 4) + threshold.
	maxCoded = 0x12
)

// ErrNotCompressible means the input would grow rather than shrink under
// Bottom LZ; callers should store such payloads raw.
var ErrNotCompressible = errors.New("data not compressible with blz")

// Decode decompresses a Bottom LZ container into the original bytes.
func Decode(input []byte) ([]byte, error) {
	if len(input)%4 != 0 {
		return nil, fmt.Errorf("blz: container length %d is not a multiple of 4", len(input))
	}
	if len(input) < 8 {
		return nil, fmt.Errorf("blz: container of %d bytes is too small", len(input))
	}

	sizeIncrease := binary.LittleEndian.Uint32(input[len(input)-4:])
	if sizeIncrease == 0 {
		return nil, fmt.Errorf("blz: not a coded file")
	}

	headerLength := uint32(input[len(input)-5])
	if headerLength < 0x08 || headerLength > 0x0B {
		return nil, fmt.Errorf("blz: invalid header length %d", headerLength)
	}
	if uint32(len(input)) <= headerLength {
		return nil, fmt.Errorf("blz: header length %d exceeds container length %d", headerLength, len(input))
	}

	encodedLength := binary.LittleEndian.Uint32(input[len(input)-8:]) & 0x00FFFFFF
	if encodedLength > uint32(len(input)) || encodedLength < headerLength {
		return nil, fmt.Errorf("blz: invalid encoded length %d", encodedLength)
	}
	unencodedLength := uint32(len(input)) - encodedLength
	encodedLength -= headerLength

	resultSize := len(input) + int(sizeIncrease)
	if resultSize > rawMaxim {
		return nil, fmt.Errorf("blz: decoded size %d exceeds format maximum", resultSize)
	}

	result := make([]byte, 0, resultSize)
	result = append(result, input[:unencodedLength]...)

	// The coded area is processed back to front.
	encoded := make([]byte, encodedLength)
	copy(encoded, input[unencodedLength:unencodedLength+encodedLength])
	reverse(encoded)

	var pos int
	var mask, flags uint32

	for len(result) < resultSize {
		mask >>= blzShift
		if mask == 0 {
			if pos == len(encoded) {
				break
			}
			flags = uint32(encoded[pos])
			pos++
			mask = blzMask
		}

		if flags&mask == 0 {
			if pos == len(encoded) {
				break
			}
			result = append(result, encoded[pos])
			pos++
			continue
		}

		if pos+1 >= len(encoded) {
			break
		}
		token := int(encoded[pos])<<8 | int(encoded[pos+1])
		pos += 2

		length := (token >> 12) + blzThreshold + 1
		if len(result)+length > resultSize {
			return nil, fmt.Errorf("blz: coded stream overruns declared size %d", resultSize)
		}

		back := (token & 0xFFF) + 3
		if back > len(result) {
			return nil, fmt.Errorf("blz: back-reference of %d exceeds %d decoded bytes", back, len(result))
		}
		for j := 0; j < length; j++ {
			result = append(result, result[len(result)-back])
		}
	}

	if len(result) != resultSize {
		return nil, fmt.Errorf("blz: decoded %d bytes, expected %d", len(result), resultSize)
	}

	reverse(result[unencodedLength:])
	return result, nil
}

// Encode compresses raw bytes into a Bottom LZ container. The split between
// the raw head and the coded tail is chosen where the running size estimate
// is smallest, like the reference encoder.
func Encode(raw []byte) ([]byte, error) {
	input := make([]byte, len(raw))
	copy(input, raw)
	reverse(input)

	result := make([]byte, 0, len(input)+(len(input)+7)/8+11)

	var flagIndex int
	var mask uint32

	inputBytesLeft := uint32(len(input))
	var resultBytesWritten uint32

	pos := 0
	for pos < len(input) {
		mask >>= blzShift
		if mask == 0 {
			flagIndex = len(result)
			result = append(result, 0)
			mask = blzMask
		}

		lengthBest, positionBest := search(input, pos)

		result[flagIndex] <<= 1

		if lengthBest > blzThreshold {
			result[flagIndex] |= 1
			token := ((lengthBest - (blzThreshold + 1)) << 4) | ((positionBest - 3) >> 8)
			result = append(result, byte(token), byte((positionBest-3)&0xFF))
			pos += lengthBest
		} else {
			result = append(result, input[pos])
			pos++
		}

		remaining := uint32(len(input) - pos)
		if uint32(len(result))+remaining < inputBytesLeft+resultBytesWritten {
			inputBytesLeft = remaining
			resultBytesWritten = uint32(len(result))
		}
	}

	for mask != 0 && mask != 1 {
		mask >>= blzShift
		result[flagIndex] <<= 1
	}

	inputLength := uint32(len(input))
	storedRounded := (resultBytesWritten + inputBytesLeft + 3) &^ 3
	if resultBytesWritten == 0 || inputLength+4 < storedRounded+8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotCompressible, len(raw))
	}

	// The raw head keeps the original's leading bytes verbatim; the coded
	// area is stored back to front so the decoder's reversal replays the
	// coding stream in emission order.
	coded := result[:resultBytesWritten]
	container := make([]byte, 0, inputBytesLeft+resultBytesWritten+12)
	container = append(container, raw[:inputBytesLeft]...)
	for i := len(coded) - 1; i >= 0; i-- {
		container = append(container, coded[i])
	}

	sizeIncrease := inputLength - inputBytesLeft - resultBytesWritten
	headerLength := uint32(8)
	for len(container)%4 != 0 {
		container = append(container, 0xFF)
		headerLength++
	}

	// The footer's size-increase field must stay positive or the decoder
	// rejects the container as uncoded.
	if sizeIncrease <= headerLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotCompressible, len(raw))
	}

	var footer [8]byte
	encodedField := resultBytesWritten + headerLength
	footer[0] = byte(encodedField)
	footer[1] = byte(encodedField >> 8)
	footer[2] = byte(encodedField >> 16)
	footer[3] = byte(headerLength)
	binary.LittleEndian.PutUint32(footer[4:], sizeIncrease-headerLength)

	return append(container, footer[:]...), nil
}

// search finds the longest previous occurrence of the bytes at input[pos:],
// at least 3 bytes back and at most maxOffset. Matches never run past the
// already-seen bytes, so the encoder emits nothing the decoder's overlap
// copy would be needed for.
func search(input []byte, pos int) (length, position int) {
	length = blzThreshold

	max := pos
	if max > maxOffset {
		max = maxOffset
	}

	for cur := 3; cur <= max; cur++ {
		l := 0
		for l < maxCoded {
			if pos+l == len(input) || l >= cur || input[pos+l] != input[pos+l-cur] {
				break
			}
			l++
		}

		if l > length {
			length = l
			position = cur
			if l == maxCoded {
				break
			}
		}
	}

	return length, position
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
