package audiometa

import "testing"

func TestLabels(t *testing.T) {
	meta := AudioMetadata{Codec: "PCM_S24LE", SampleRate: 44100, BitDepth: 24, DurationSeconds: 125.9}
	if got := meta.SampleRateLabel(); got != "44.1 kHz" {
		t.Fatalf("SampleRateLabel = %q", got)
	}
	if got := meta.BitDepthLabel(); got != "24-bit" {
		t.Fatalf("BitDepthLabel = %q", got)
	}
	if got := meta.DurationLabel(); got != "02:05" {
		t.Fatalf("DurationLabel = %q", got)
	}
	if got := meta.CodecLabel(); got != "PCM 24" {
		t.Fatalf("CodecLabel = %q", got)
	}
}

func TestLabelsUnknown(t *testing.T) {
	meta := AudioMetadata{Codec: "dts"}
	if meta.SampleRateLabel() != "-" || meta.BitDepthLabel() != "-" || meta.DurationLabel() != "--:--" {
		t.Fatalf("unexpected unknown labels: %q %q %q", meta.SampleRateLabel(), meta.BitDepthLabel(), meta.DurationLabel())
	}
	if meta.CodecLabel() != "DTS" {
		t.Fatalf("expected raw uppercase codec, got %q", meta.CodecLabel())
	}
	meta.Float = true
	if meta.BitDepthLabel() != "32f-bit" {
		t.Fatalf("expected float label, got %q", meta.BitDepthLabel())
	}
}
