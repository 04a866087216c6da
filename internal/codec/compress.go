package codec

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/iliyamo/seatmap-studio/internal/model"
)

// zstdMagic starts every zstd frame.  Stored blobs without it are plain JSON
// written before compression was enabled.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// zstd.Encoder and zstd.Decoder are safe for concurrent use and reused
// across calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress returns data as a zstd frame.
func Compress(data []byte) []byte {
	return zstdEncoder.EncodeAll(data, nil)
}

// Decompress reverses Compress.  Input that is not a zstd frame is returned
// unchanged.
func Decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}

// Blob is a snapshot ready for storage.
type Blob struct {
	Data        []byte // compressed JSON
	Fingerprint string
	Size        int // uncompressed size
}

// Pack encodes, fingerprints and compresses a snapshot.
func Pack(s model.Snapshot) (Blob, error) {
	js, err := EncodeSnapshot(s)
	if err != nil {
		return Blob{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return Blob{Data: Compress(js), Fingerprint: Fingerprint(js), Size: len(js)}, nil
}

// Unpack decompresses and leniently decodes a stored snapshot.
func Unpack(data []byte) (model.Snapshot, error) {
	js, err := Decompress(data)
	if err != nil {
		return model.Snapshot{}, err
	}
	return DecodeSnapshot(js)
}
