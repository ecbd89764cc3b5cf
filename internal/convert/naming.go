package convert

import (
	"path/filepath"
	"strings"

	"cdjready/internal/planner"
	"cdjready/internal/textutil"
)

// DefaultOutputDirName is created next to each source when no output
// directory is configured.
const DefaultOutputDirName = "CDJ_Ready"

// DefaultOutputSuffix is appended to every output stem.
const DefaultOutputSuffix = "_CDJ"

// OutputDir returns the directory a converted copy of source is written to.
func OutputDir(source, outputDir string) string {
	if strings.TrimSpace(outputDir) != "" {
		return outputDir
	}
	return filepath.Join(filepath.Dir(source), DefaultOutputDirName)
}

// OutputPath returns <dir>/<stem><suffix><ext>. The stem is NFC normalized and
// sanitized; the suffix is not appended twice.
func OutputPath(source, outputDir, suffix string, plan planner.ConversionPlan) string {
	return filepath.Join(OutputDir(source, outputDir), OutputName(source, suffix, plan.Extension()))
}

// OutputName builds the output file name for source with ext.
func OutputName(source, suffix, ext string) string {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	base := filepath.Base(source)
	stem := textutil.NormalizeFileName(strings.TrimSuffix(base, filepath.Ext(base)), "track")
	if !strings.HasSuffix(stem, suffix) {
		stem += suffix
	}
	return stem + ext
}

// partialPath is where ffmpeg writes before verification. The real extension
// is kept last so ffmpeg still picks the right muxer.
func partialPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".part" + ext
}
