package codec

import (
	"fmt"
	"net/http"

	"github.com/fxamacker/cbor/v2"
)

// encMode writes Core Deterministic CBOR so equal values always produce
// equal bytes.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes v as deterministic CBOR.
func MarshalCBOR(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// UnmarshalCBOR decodes CBOR into v.
func UnmarshalCBOR(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// CachedResponse is an HTTP response stored by the response cache.
type CachedResponse struct {
	Status int                 `cbor:"1,keyasint"`
	Header map[string][]string `cbor:"2,keyasint,omitempty"`
	Body   []byte              `cbor:"3,keyasint,omitempty"`
}

// EncodeResponse packs a response for the cache.
func EncodeResponse(status int, header http.Header, body []byte) ([]byte, error) {
	return encMode.Marshal(CachedResponse{Status: status, Header: header, Body: body})
}

// DecodeResponse unpacks a cached response.
func DecodeResponse(data []byte) (CachedResponse, error) {
	var r CachedResponse
	if err := decMode.Unmarshal(data, &r); err != nil {
		return CachedResponse{}, fmt.Errorf("decode cached response: %w", err)
	}
	if r.Status < 100 || r.Status > 999 {
		return CachedResponse{}, fmt.Errorf("decode cached response: bad status %d", r.Status)
	}
	return r, nil
}
