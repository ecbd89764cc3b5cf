package planner

import (
	"fmt"
	"slices"
	"strings"

	"cdjready/internal/audiometa"
	"cdjready/internal/classify"
	"cdjready/internal/profiles"
	"cdjready/internal/services"
)

const (
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
	fallbackMaxRate   = 48000
	fallbackMaxDepth  = 24
)

// rateLadder lists the canonical output rates, highest first.
var rateLadder = []int{96000, 88200, 48000, 44100}

// OutputFormats are the containers a plan may target.
var OutputFormats = []classify.Category{classify.WAV, classify.AIFF, classify.FLAC}

// Policy tunes container selection.
type Policy struct {
	// PreferNativeLossless writes FLAC for lossless sources when the device
	// reads FLAC natively.
	PreferNativeLossless bool
}

// ConversionPlan is the target container and resolution for one file.
type ConversionPlan struct {
	OutputFormat     classify.Category `json:"output_format"`
	TargetSampleRate int               `json:"target_sample_rate"`
	TargetBitDepth   int               `json:"target_bit_depth"`
	Resample         bool              `json:"resample"`
	Reason           string            `json:"reason"`
}

// Extension returns the output file extension including the dot.
func (p ConversionPlan) Extension() string {
	switch p.OutputFormat {
	case classify.AIFF:
		return ".aiff"
	case classify.FLAC:
		return ".flac"
	default:
		return ".wav"
	}
}

// Label renders the plan as "WAV 24bit/48.0kHz".
func (p ConversionPlan) Label() string {
	return fmt.Sprintf("%s %s", p.OutputFormat, resolution(p.TargetBitDepth, p.TargetSampleRate))
}

// Plan computes the conversion target for meta on a device with limits.
// Unknown or non-positive source values fall back to 44.1 kHz/16-bit.
func Plan(meta audiometa.AudioMetadata, limits profiles.Limits, losslessSource bool, policy Policy) ConversionPlan {
	if !losslessSource {
		return ConversionPlan{
			OutputFormat:     container(meta.Codec, limits, false, policy),
			TargetSampleRate: DefaultSampleRate,
			TargetBitDepth:   DefaultBitDepth,
			Resample:         meta.SampleRate != DefaultSampleRate,
			Reason:           "From lossy: 16bit/44.1kHz",
		}
	}

	srcRate := positiveOr(meta.SampleRate, DefaultSampleRate)
	srcDepth := positiveOr(meta.BitDepth, DefaultBitDepth)
	format := container(meta.Codec, limits, true, policy)
	ceiling := positiveOr(limits.RateCeiling(format), fallbackMaxRate)
	maxDepth := positiveOr(limits.MaxBitDepth, fallbackMaxDepth)

	rate := snapRate(min(srcRate, ceiling), ceiling)
	depth := DefaultBitDepth
	if min(srcDepth, maxDepth) >= 24 {
		depth = 24
	}

	return ConversionPlan{
		OutputFormat:     format,
		TargetSampleRate: rate,
		TargetBitDepth:   depth,
		Resample:         meta.SampleRate != rate,
		Reason:           "Lossless: " + resolution(depth, rate),
	}
}

// Settings is a user supplied conversion target.
type Settings struct {
	Format     string
	SampleRate int
	BitDepth   int
}

// Custom validates settings against profile and returns them as a plan.
func Custom(settings Settings, profile profiles.DeviceProfile) (ConversionPlan, error) {
	limits := profile.Limits()
	format := classify.Category(strings.ToUpper(strings.TrimSpace(settings.Format)))
	if !slices.Contains(OutputFormats, format) {
		return ConversionPlan{}, validationError("format", fmt.Sprintf("unsupported output format %q (use WAV, AIFF or FLAC)", settings.Format))
	}
	if format == classify.FLAC && !slices.Contains(limits.NativeLossless, string(classify.FLAC)) {
		return ConversionPlan{}, validationError("format", fmt.Sprintf("%s does not play FLAC", profile.Name))
	}
	if !slices.Contains(rateLadder, settings.SampleRate) {
		return ConversionPlan{}, validationError("sample_rate", fmt.Sprintf("unsupported sample rate %d", settings.SampleRate))
	}
	if ceiling := limits.RateCeiling(format); ceiling > 0 && settings.SampleRate > ceiling {
		return ConversionPlan{}, validationError("sample_rate", fmt.Sprintf("%s exceeds %s maximum of %s for %s", khz(settings.SampleRate), profile.Name, khz(ceiling), format))
	}
	if settings.BitDepth != 16 && settings.BitDepth != 24 {
		return ConversionPlan{}, validationError("bit_depth", fmt.Sprintf("unsupported bit depth %d (use 16 or 24)", settings.BitDepth))
	}
	if limits.MaxBitDepth > 0 && settings.BitDepth > limits.MaxBitDepth {
		return ConversionPlan{}, validationError("bit_depth", fmt.Sprintf("%d-bit exceeds %s maximum of %d-bit", settings.BitDepth, profile.Name, limits.MaxBitDepth))
	}
	return ConversionPlan{
		OutputFormat:     format,
		TargetSampleRate: settings.SampleRate,
		TargetBitDepth:   settings.BitDepth,
		Resample:         true,
		Reason:           "Custom: " + resolution(settings.BitDepth, settings.SampleRate),
	}, nil
}

// MaxQuality returns the highest resolution WAV target the device accepts.
func MaxQuality(limits profiles.Limits) ConversionPlan {
	ceiling := positiveOr(limits.RateCeiling(classify.WAV), fallbackMaxRate)
	rate := snapRate(ceiling, ceiling)
	depth := DefaultBitDepth
	if positiveOr(limits.MaxBitDepth, fallbackMaxDepth) >= 24 {
		depth = 24
	}
	return ConversionPlan{
		OutputFormat:     classify.WAV,
		TargetSampleRate: rate,
		TargetBitDepth:   depth,
		Resample:         true,
		Reason:           "Max quality: " + resolution(depth, rate),
	}
}

// Codec returns the ffmpeg encoder for the plan's container and depth.
func Codec(plan ConversionPlan) string {
	switch plan.OutputFormat {
	case classify.FLAC:
		return "flac"
	case classify.AIFF:
		if plan.TargetBitDepth >= 24 {
			return "pcm_s24be"
		}
		return "pcm_s16be"
	default:
		if plan.TargetBitDepth >= 24 {
			return "pcm_s24le"
		}
		return "pcm_s16le"
	}
}

// SampleFormat returns the ffmpeg sample format matching the target depth.
func SampleFormat(plan ConversionPlan) string {
	if plan.TargetBitDepth >= 24 {
		return "s32"
	}
	return "s16"
}

// container picks the output container. AIFF and big-endian PCM sources stay
// AIFF; everything else becomes WAV unless policy selects native FLAC.
func container(codec string, limits profiles.Limits, lossless bool, policy Policy) classify.Category {
	if lossless && policy.PreferNativeLossless && slices.Contains(limits.NativeLossless, string(classify.FLAC)) {
		return classify.FLAC
	}
	lower := strings.ToLower(strings.TrimSpace(codec))
	if strings.Contains(lower, "aiff") || classify.IsBigEndianPCM(lower) {
		return classify.AIFF
	}
	return classify.WAV
}

// snapRate rounds rate down to the ladder without crossing ceiling.
func snapRate(rate, ceiling int) int {
	for _, step := range rateLadder {
		if step > ceiling {
			continue
		}
		if step <= rate {
			return step
		}
	}
	return DefaultSampleRate
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func resolution(depth, rate int) string {
	return fmt.Sprintf("%dbit/%.1fkHz", depth, float64(rate)/1000)
}

func khz(rate int) string {
	return fmt.Sprintf("%.1fkHz", float64(rate)/1000)
}

func validationError(field, message string) error {
	return services.Wrap(services.ErrValidation, "planner", field, message, nil)
}
