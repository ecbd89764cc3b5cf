package audiometa

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"cdjready/internal/media/ffprobe"
)

// ErrNoAudioStream is returned when a probed file has no audio stream.
var ErrNoAudioStream = errors.New("no audio stream found")

// AudioMetadata is the normalized technical description of one probed file.
// Zero SampleRate or BitDepth means the value is unknown; lossy codecs never
// carry a bit depth.
type AudioMetadata struct {
	Path            string  `json:"path"`
	Filename        string  `json:"filename"`
	Codec           string  `json:"codec"`
	FormatName      string  `json:"format_name,omitempty"`
	SampleRate      int     `json:"sample_rate,omitempty"`
	BitDepth        int     `json:"bit_depth,omitempty"`
	Channels        int     `json:"channels"`
	BitRate         int64   `json:"bit_rate,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Lossy           bool    `json:"lossy"`
	Float           bool    `json:"float"`
}

var lossyCodecs = []string{"MP3", "AAC", "VORBIS", "OPUS", "WMAV1", "WMAV2", "WMA", "WMAPRO"}

var lossyFragments = []string{"mp3", "aac", "vorbis", "opus", "wma"}

// FromProbe builds metadata for path from the first audio stream of result.
// Every optional field is defaulted independently.
func FromProbe(path string, result ffprobe.Result) (AudioMetadata, error) {
	stream, ok := result.FirstAudioStream()
	if !ok {
		return AudioMetadata{}, ErrNoAudioStream
	}

	codec := strings.ToUpper(strings.TrimSpace(stream.CodecName))
	if codec == "" {
		codec = "UNKNOWN"
	}
	sampleFmt := strings.ToLower(strings.TrimSpace(stream.SampleFmt))

	meta := AudioMetadata{
		Path:       path,
		Filename:   filepath.Base(path),
		Codec:      codec,
		FormatName: strings.ToUpper(strings.TrimSpace(result.Format.FormatName)),
		SampleRate: stream.SampleRateHz(),
		Channels:   stream.Channels,
		Lossy:      IsLossyCodec(codec),
		Float:      strings.Contains(sampleFmt, "flt") || strings.Contains(sampleFmt, "dbl"),
	}
	if meta.Channels <= 0 {
		meta.Channels = 2
	}
	if !meta.Lossy {
		meta.BitDepth = bitDepth(stream, sampleFmt)
	}

	meta.BitRate = stream.BitRateBPS()
	if meta.BitRate == 0 {
		meta.BitRate = result.BitRate()
	}
	meta.DurationSeconds = stream.DurationSeconds()
	if d := result.DurationSeconds(); d > 0 {
		meta.DurationSeconds = d
	}
	return meta, nil
}

// IsLossyCodec reports whether a codec token belongs to a lossy family.
func IsLossyCodec(codec string) bool {
	upper := strings.ToUpper(strings.TrimSpace(codec))
	if slices.Contains(lossyCodecs, upper) {
		return true
	}
	lower := strings.ToLower(upper)
	for _, fragment := range lossyFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// bitDepth resolves the sample bit depth: explicit bit count, then raw bit
// count, then the sample format token.
func bitDepth(stream ffprobe.Stream, sampleFmt string) int {
	if stream.BitsPerSample > 0 {
		return stream.BitsPerSample
	}
	if raw := stream.RawBitDepth(); raw > 0 {
		return raw
	}
	switch {
	case strings.Contains(sampleFmt, "s16"):
		return 16
	case strings.Contains(sampleFmt, "s24"):
		return 24
	case strings.Contains(sampleFmt, "s32"):
		// 24-bit audio is carried in 32-bit containers.
		return 24
	case strings.Contains(sampleFmt, "s8"), strings.Contains(sampleFmt, "u8"):
		return 8
	case strings.Contains(sampleFmt, "flt"), strings.Contains(sampleFmt, "dbl"):
		return 32
	}
	return 0
}
