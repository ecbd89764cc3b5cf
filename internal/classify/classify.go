// Package classify maps probed codec names and file extensions to the format
// categories used by device profile lookups.
//
// The mapping is an explicit ordered rule table because prober output is
// untyped text. Codec rules run first and extension rules act as a fallback,
// so a specific codec (pcm_s16be, alac) is never shadowed by a generic
// extension (.wav, .m4a).
package classify

import (
	"path/filepath"
	"slices"
	"strings"

	"cdjready/internal/audiometa"
)

// Category is a canonical audio format label.
type Category string

const (
	MP3     Category = "MP3"
	AAC     Category = "AAC"
	WAV     Category = "WAV"
	AIFF    Category = "AIFF"
	FLAC    Category = "FLAC"
	OGG     Category = "OGG"
	OPUS    Category = "OPUS"
	WMA     Category = "WMA"
	ALAC    Category = "ALAC"
	Unknown Category = "UNKNOWN"
)

func (c Category) String() string { return string(c) }

type rule struct {
	match    func(codec, ext string) bool
	category Category
}

var codecRules = []rule{
	{func(c, _ string) bool { return strings.Contains(c, "mp3") }, MP3},
	{func(c, _ string) bool { return strings.Contains(c, "aac") }, AAC},
	{func(c, ext string) bool { return isPCM(c) && !isBigEndianPCM(c) && !isAIFFExt(ext) }, WAV},
	{func(c, ext string) bool { return strings.Contains(c, "aiff") || (isPCM(c) && (isBigEndianPCM(c) || isAIFFExt(ext))) }, AIFF},
	{func(c, _ string) bool { return c == "flac" }, FLAC},
	{func(c, _ string) bool { return strings.Contains(c, "vorbis") || c == "ogg" }, OGG},
	{func(c, _ string) bool { return strings.Contains(c, "opus") }, OPUS},
	{func(c, _ string) bool { return strings.HasPrefix(c, "wma") }, WMA},
	{func(c, _ string) bool { return c == "alac" }, ALAC},
}

var extensionCategories = map[string]Category{
	".mp3":  MP3,
	".m4a":  AAC,
	".aac":  AAC,
	".mp4":  AAC,
	".wav":  WAV,
	".wave": WAV,
	".aiff": AIFF,
	".aif":  AIFF,
	".flac": FLAC,
	".ogg":  OGG,
	".oga":  OGG,
	".opus": OPUS,
	".wma":  WMA,
}

// inputExtensions lists the extensions picked up when scanning directories.
var inputExtensions = []string{".mp3", ".m4a", ".wav", ".wave", ".aiff", ".aif", ".flac", ".ogg", ".opus", ".wma"}

// Classify returns the format category for a codec token and file path.
// Empty or unrecognised input resolves to Unknown.
func Classify(codec, path string) Category {
	c := strings.ToLower(strings.TrimSpace(codec))
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	if c != "" {
		for _, r := range codecRules {
			if r.match(c, ext) {
				return r.category
			}
		}
	}
	if category, ok := extensionCategories[ext]; ok {
		return category
	}
	return Unknown
}

// ForMetadata classifies a probed file.
func ForMetadata(meta audiometa.AudioMetadata) Category {
	return Classify(meta.Codec, meta.Path)
}

// IsAudioExtension reports whether ext (with or without a leading dot) is a
// recognised input extension. Matching is case-insensitive.
func IsAudioExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return slices.Contains(inputExtensions, ext)
}

// Extensions returns the recognised input extensions.
func Extensions() []string {
	return slices.Clone(inputExtensions)
}

// IsBigEndianPCM reports whether a codec token names big-endian PCM, the
// sample layout used inside AIFF containers.
func IsBigEndianPCM(codec string) bool {
	return isBigEndianPCM(strings.ToLower(strings.TrimSpace(codec)))
}

func isPCM(c string) bool {
	return strings.Contains(c, "pcm") || c == "wav"
}

func isBigEndianPCM(c string) bool {
	return strings.HasPrefix(c, "pcm_") && strings.HasSuffix(c, "be")
}

func isAIFFExt(ext string) bool {
	return ext == ".aif" || ext == ".aiff"
}
