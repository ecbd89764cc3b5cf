package convert

import (
	"strconv"

	"cdjready/internal/planner"
)

// resampleFilter selects the soxr resampler with triangular dither.
const resampleFilter = "aresample=resampler=soxr:dither_method=triangular"

// BuildArgs returns the ffmpeg arguments that convert source into output
// according to plan. Only the first audio stream is kept; embedded artwork
// and other streams are dropped and tags are carried over.
func BuildArgs(source, output string, plan planner.ConversionPlan) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", source,
		"-vn",
		"-map", "0:a:0",
		"-c:a", planner.Codec(plan),
		"-ar", strconv.Itoa(plan.TargetSampleRate),
		// 24-bit output travels in s32.
		"-sample_fmt", planner.SampleFormat(plan),
	}
	if plan.Resample {
		args = append(args, "-af", resampleFilter)
	}
	args = append(args, "-map_metadata", "0", output)
	return args
}
