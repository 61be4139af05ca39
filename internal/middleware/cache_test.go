package middleware

import (
	"net/http"
	"testing"
)

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"opportunities":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", gotHdr.Get("Content-Type"))
	}
	if vals := gotHdr.Values("X-Custom"); len(vals) != 2 || vals[0] != "a" || vals[1] != "b" {
		t.Errorf("X-Custom = %v", vals)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestCachePayloadEmptyBody(t *testing.T) {
	payload, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, _, body, ok := decodePayload(payload)
	if !ok || status != http.StatusNoContent || len(body) != 0 {
		t.Errorf("got status=%d body=%q ok=%v", status, body, ok)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		if _, _, _, ok := decodePayload(bs); ok && len(bs) < 8 {
			t.Errorf("decode accepted %d-byte payload", len(bs))
		}
	}
	// Header length pointing past the end of the buffer.
	bad, _ := encodePayload(200, http.Header{}, []byte("x"))
	bad[7] = 0xFF
	if _, _, _, ok := decodePayload(bad); ok {
		t.Error("decode accepted payload with oversized header length")
	}
}
