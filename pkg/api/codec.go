package api

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// FrameCodec упаковывает снимки в бинарные zstd-кадры.
// EncodeAll/DecodeAll безопасны для конкурентного использования.
type FrameCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewFrameCodec() (*FrameCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &FrameCodec{enc: enc, dec: dec}, nil
}

// Encode сериализует значение в JSON и сжимает
func (c *FrameCodec) Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode распаковывает кадр в значение
func (c *FrameCodec) Decode(frame []byte, v any) error {
	raw, err := c.dec.DecodeAll(frame, nil)
	if err != nil {
		return fmt.Errorf("decompress frame: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal frame: %w", err)
	}
	return nil
}

func (c *FrameCodec) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}
