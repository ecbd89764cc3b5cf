package audiometa

import (
	"fmt"
	"math"
	"strings"
)

var codecLabels = map[string]string{
	"MP3":       "MP3",
	"AAC":       "AAC",
	"PCM_S16LE": "PCM 16",
	"PCM_S24LE": "PCM 24",
	"PCM_S32LE": "PCM 32",
	"PCM_S16BE": "PCM 16 BE",
	"PCM_S24BE": "PCM 24 BE",
	"PCM_F32LE": "PCM 32f",
	"PCM_F64LE": "PCM 64f",
	"FLAC":      "FLAC",
	"VORBIS":    "Vorbis",
	"OPUS":      "Opus",
	"WMAV2":     "WMA",
	"WMA":       "WMA",
	"ALAC":      "ALAC",
}

// SampleRateLabel renders the sample rate as "44.1 kHz", or "-" when unknown.
func (m AudioMetadata) SampleRateLabel() string {
	if m.SampleRate <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f kHz", float64(m.SampleRate)/1000)
}

// BitDepthLabel renders the bit depth as "24-bit", "32f-bit" for float
// sources without a nominal depth, or "-".
func (m AudioMetadata) BitDepthLabel() string {
	switch {
	case m.BitDepth > 0:
		return fmt.Sprintf("%d-bit", m.BitDepth)
	case m.Float:
		return "32f-bit"
	default:
		return "-"
	}
}

// DurationLabel renders the duration as MM:SS, or "--:--" when unknown.
func (m AudioMetadata) DurationLabel() string {
	if m.DurationSeconds <= 0 || math.IsNaN(m.DurationSeconds) || math.IsInf(m.DurationSeconds, 0) {
		return "--:--"
	}
	total := int(m.DurationSeconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// CodecLabel returns a short display name for the codec.
func (m AudioMetadata) CodecLabel() string {
	upper := strings.ToUpper(m.Codec)
	if label, ok := codecLabels[upper]; ok {
		return label
	}
	return upper
}
