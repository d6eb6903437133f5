package transport

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Encoding names the expected text encoding of request payloads
type Encoding string

const (
	// EncodingUTF8 accepts any well-formed UTF-8 payload
	EncodingUTF8 Encoding = "utf-8"
	// EncodingASCII restricts payloads to 7-bit-clean text
	EncodingASCII Encoding = "ascii"
)

// DefaultChunkSize is the read size used when draining a stream
const DefaultChunkSize = 4096

// TransportError reports a stream that could not be read or decoded
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Validate checks that data conforms to the encoding
func (e Encoding) Validate(data []byte) error {
	switch e {
	case EncodingASCII:
		if i := bytes.IndexFunc(data, func(r rune) bool { return r >= 0x80 }); i >= 0 {
			return fmt.Errorf("non-ASCII byte at offset %d", i)
		}
		return nil
	case EncodingUTF8, "":
		if !utf8.Valid(data) {
			return fmt.Errorf("payload is not valid UTF-8")
		}
		return nil
	default:
		return fmt.Errorf("unknown encoding %q", e)
	}
}

// ReadPayload drains r to EOF in fixed-size chunks and validates the
// accumulated bytes against the encoding. The payload may arrive in
// any number of chunks; a zero-byte read signals completion. Nothing
// is returned until the stream is fully drained.
func ReadPayload(r io.Reader, chunkSize int, enc Encoding) ([]byte, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var data []byte
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &TransportError{Op: "read stream", Err: err}
		}
	}

	if err := enc.Validate(data); err != nil {
		return nil, &TransportError{Op: "decode payload", Err: err}
	}

	return data, nil
}

// ReadFile reads a complete payload from a local file
func ReadFile(path string, enc Encoding) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TransportError{Op: "open file", Err: err}
	}
	defer f.Close()

	return ReadPayload(f, DefaultChunkSize, enc)
}
