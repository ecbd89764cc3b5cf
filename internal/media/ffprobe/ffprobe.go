package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrEmptyOutput is returned when ffprobe exits cleanly but prints nothing usable.
var ErrEmptyOutput = errors.New("ffprobe returned empty output")

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`
	CodecLongName    string `json:"codec_long_name"`
	CodecType        string `json:"codec_type"`
	SampleFmt        string `json:"sample_fmt"`
	SampleRate       string `json:"sample_rate"`
	Channels         int    `json:"channels"`
	ChannelLayout    string `json:"channel_layout"`
	BitsPerSample    int    `json:"bits_per_sample"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
	Duration         string `json:"duration"`
	BitRate          string `json:"bit_rate"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("ffprobe inspect: %w", ctxErr)
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	output := bytes.TrimSpace(stdout.Bytes())
	if len(output) == 0 || bytes.Equal(output, []byte("{}")) {
		return Result{}, ErrEmptyOutput
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), output...)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// FirstAudioStream returns the first audio stream, if any.
func (r Result) FirstAudioStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// SampleRateHz returns the stream sample rate, or 0 when absent or invalid.
func (s Stream) SampleRateHz() int {
	return positiveInt(s.SampleRate)
}

// RawBitDepth returns bits_per_raw_sample, or 0 when absent or invalid.
func (s Stream) RawBitDepth() int {
	return positiveInt(s.BitsPerRawSample)
}

// BitRateBPS returns the stream bitrate in bits per second, or 0 when unavailable.
func (s Stream) BitRateBPS() int64 {
	return nonNegativeInt64(s.BitRate)
}

// DurationSeconds returns the stream duration in seconds, or 0 when unavailable.
func (s Stream) DurationSeconds() float64 {
	return finiteOrZero(parseFloat(s.Duration))
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return finiteOrZero(parseFloat(r.Format.Duration))
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	return nonNegativeInt64(r.Format.Size)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	return nonNegativeInt64(r.Format.BitRate)
}

func positiveInt(value string) int {
	parsed := parseFloat(value)
	if math.IsNaN(parsed) || parsed <= 0 {
		return 0
	}
	return int(parsed)
}

func nonNegativeInt64(value string) int64 {
	parsed := parseFloat(value)
	if math.IsNaN(parsed) || parsed < 0 {
		return 0
	}
	return int64(parsed)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "N/A" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
