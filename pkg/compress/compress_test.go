package compress

import (
	"bytes"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"Flaw Description": "repeated json payload"}`, 100))

	for _, alg := range []Algorithm{AlgorithmZSTD, AlgorithmGzip, AlgorithmNone} {
		t.Run(string(alg), func(t *testing.T) {
			c := NewCompressor(alg, LevelDefault)
			compressed, err := c.Compress(payload)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}
			if alg != AlgorithmNone && len(compressed) >= len(payload) {
				t.Errorf("compressed size %d >= original %d", len(compressed), len(payload))
			}
			out, err := c.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(out, payload) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	c := NewCompressor(Algorithm("lz4"), LevelDefault)
	if _, err := c.Compress([]byte("x")); err == nil {
		t.Error("Compress() with unsupported algorithm = nil error")
	}
	if _, err := c.Decompress([]byte("x")); err == nil {
		t.Error("Decompress() with unsupported algorithm = nil error")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want string
	}{
		{AlgorithmZSTD, ".zst"},
		{AlgorithmGzip, ".gz"},
		{AlgorithmNone, ""},
	}
	for _, tt := range tests {
		if got := NewCompressor(tt.alg, LevelDefault).Extension(); got != tt.want {
			t.Errorf("Extension(%s) = %q, want %q", tt.alg, got, tt.want)
		}
	}
}

func TestCompressWithStats(t *testing.T) {
	c := NewCompressor(AlgorithmZSTD, LevelDefault)
	payload := []byte(strings.Repeat("abc", 500))
	compressed, stats, err := c.CompressWithStats(payload)
	if err != nil {
		t.Fatalf("CompressWithStats() error = %v", err)
	}
	if stats.OriginalSize != len(payload) || stats.CompressedSize != len(compressed) {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Ratio <= 0 || stats.Ratio >= 1 {
		t.Errorf("ratio = %f", stats.Ratio)
	}
	if stats.Algorithm != "zstd" {
		t.Errorf("algorithm = %q", stats.Algorithm)
	}
}
