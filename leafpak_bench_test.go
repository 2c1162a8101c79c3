package leafpak

import (
	"bytes"
	"fmt"
	"testing"
)

var benchInput = bytes.Repeat([]byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit. "), 512)

func BenchmarkEncode(b *testing.B) {
	data := benchInput
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(data, nil)
	}
}

func BenchmarkEncodeSearchLevels(b *testing.B) {
	data := benchInput
	levels := []int{0, 64, 256, 1024, HistorySize}
	for _, limit := range levels {
		limit := limit
		opts := &EncodeOptions{SearchLimit: limit}
		b.Run(fmt.Sprintf("Limit=%d", limit), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = Encode(data, opts)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	enc, err := Encode(benchInput, nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(enc, nil)
	}
}
