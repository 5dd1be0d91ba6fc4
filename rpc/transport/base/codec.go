package base

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
)

// frameHeaderSize is the size of the length prefix of every frame
const frameHeaderSize = 4

// ErrFrameTooLarge is returned by readFrame when the announced payload length
// exceeds the configured maximum. The stream is out of sync afterwards and the
// connection must be closed.
var ErrFrameTooLarge = errors.New("frame exceeds max frame length")

// writeFrame writes a frame to the writer with the format:
// - 4 bytes: payload length (uint32, big endian)
// - N bytes: payload
func writeFrame(w io.Writer, payload []byte) error {
	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header, uint32(len(payload)))

	b := net.Buffers{header, payload}
	_, err := b.WriteTo(w)
	return err
}

// readFrame reads one frame from the reader using the provided buffer.
// If the buffer is too small a new one is allocated, so callers must use the
// returned slice and not assume it aliases buf. maxFrameLength <= 0 disables
// the size check.
func readFrame(r io.Reader, buf []byte, maxFrameLength int) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header[:])
	if maxFrameLength > 0 && uint64(contentLength) > uint64(maxFrameLength) {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, contentLength, maxFrameLength)
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return []byte{}, nil
	}

	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		// a partial payload is a broken stream, not a clean close
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	return buf[:contentLength], nil
}
