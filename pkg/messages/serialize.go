package messages

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Subprotocols negotiated during the WebSocket handshake
const (
	SubprotocolJSON     = "pong.json"
	SubprotocolJSONZstd = "pong.json+zstd"
)

// Subprotocols lists the supported subprotocols in order of server preference.
func Subprotocols() []string {
	return []string{SubprotocolJSON, SubprotocolJSONZstd}
}

// Codec converts messages to and from frames.
type Codec interface {
	// Subprotocol is the name negotiated for this codec.
	Subprotocol() string
	// Binary reports whether frames are sent as binary rather than text.
	Binary() bool
	Encode(m *Message) ([]byte, error)
	Decode(b []byte) (*Message, error)
}

// CodecForSubprotocol returns the codec for a negotiated subprotocol.
// An empty subprotocol selects plain JSON.
func CodecForSubprotocol(subprotocol string) (Codec, error) {
	switch subprotocol {
	case "", SubprotocolJSON:
		return JSONCodec{}, nil
	case SubprotocolJSONZstd:
		return NewZstdCodec()
	default:
		return nil, fmt.Errorf("unsupported subprotocol: %s", subprotocol)
	}
}

// JSONCodec writes messages as JSON text frames.
type JSONCodec struct{}

func (JSONCodec) Subprotocol() string { return SubprotocolJSON }

func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %v", err)
	}
	return b, nil
}

func (JSONCodec) Decode(b []byte) (*Message, error) {
	m := &Message{}
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %v", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}
	return m, nil
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

// ZstdCodec writes the JSON encoding compressed with zstd as binary frames.
// EncodeAll and DecodeAll are safe for concurrent use, so one encoder and
// decoder are shared by every connection.
type ZstdCodec struct {
	json    JSONCodec
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstdCodec() (*ZstdCodec, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if zstdErr != nil {
			zstdErr = fmt.Errorf("failed to create zstd encoder: %v", zstdErr)
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MessageBufferSize*64))
		if zstdErr != nil {
			zstdErr = fmt.Errorf("failed to create zstd decoder: %v", zstdErr)
		}
	})
	if zstdErr != nil {
		return nil, zstdErr
	}

	return &ZstdCodec{
		encoder: zstdEncoder,
		decoder: zstdDecoder,
	}, nil
}

func (c *ZstdCodec) Subprotocol() string { return SubprotocolJSONZstd }

func (c *ZstdCodec) Binary() bool { return true }

func (c *ZstdCodec) Encode(m *Message) ([]byte, error) {
	b, err := c.json.Encode(m)
	if err != nil {
		return nil, err
	}
	return c.encoder.EncodeAll(b, nil), nil
}

func (c *ZstdCodec) Decode(b []byte) (*Message, error) {
	decompressed, err := c.decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress message: %v", err)
	}
	return c.json.Decode(decompressed)
}
