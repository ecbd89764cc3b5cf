package profiles

import "cdjready/internal/classify"

var categoryOrder = []classify.Category{
	classify.MP3, classify.AAC, classify.WAV, classify.AIFF, classify.FLAC,
	classify.ALAC, classify.OGG, classify.OPUS, classify.WMA,
}

var (
	rates44to48  = []int{44100, 48000}
	rates44to96  = []int{44100, 48000, 88200, 96000}
	depths16to24 = []int{16, 24}
)

func mp3(rates ...int) AudioFormat {
	return AudioFormat{Name: "MP3", Extensions: []string{".mp3"}, SampleRates: rates}
}

func aac(rates ...int) AudioFormat {
	return AudioFormat{Name: "AAC", Extensions: []string{".m4a", ".aac", ".mp4"}, SampleRates: rates}
}

func wav(rates []int) AudioFormat {
	return AudioFormat{Name: "WAV", Extensions: []string{".wav", ".wave"}, SampleRates: rates, BitDepths: depths16to24, Lossless: true}
}

func aiff(rates []int) AudioFormat {
	return AudioFormat{Name: "AIFF", Extensions: []string{".aiff", ".aif"}, SampleRates: rates, BitDepths: depths16to24, Lossless: true}
}

func flac(rates []int) AudioFormat {
	return AudioFormat{Name: "FLAC", Extensions: []string{".flac"}, SampleRates: rates, BitDepths: depths16to24, Lossless: true}
}

func alac(rates []int) AudioFormat {
	return AudioFormat{Name: "ALAC", Extensions: []string{".m4a"}, SampleRates: rates, BitDepths: depths16to24, Lossless: true}
}

var catalogOrder = []string{"cdj_2000_nxs", "cdj_2000_nxs2", "cdj_3000", "xdj_1000_mk2", "xdj_700"}

var catalog = map[string]DeviceProfile{
	"cdj_2000_nxs": {
		ID:          "cdj_2000_nxs",
		Name:        "CDJ-2000 Nexus",
		Year:        2012,
		Description: "First generation Nexus - Club standard",
		Formats: map[classify.Category]AudioFormat{
			classify.MP3:  mp3(44100),
			classify.AAC:  aac(44100, 48000),
			classify.WAV:  wav(rates44to48),
			classify.AIFF: aiff(rates44to48),
		},
		MaxSampleRate:    48000,
		MaxBitDepth:      24,
		SupportsLossless: true,
	},
	"cdj_2000_nxs2": {
		ID:          "cdj_2000_nxs2",
		Name:        "CDJ-2000 Nexus 2",
		Year:        2016,
		Description: "Second generation - Adds FLAC and larger screen",
		Formats: map[classify.Category]AudioFormat{
			classify.MP3:  mp3(44100),
			classify.AAC:  aac(44100, 48000),
			classify.WAV:  wav(rates44to48),
			classify.AIFF: aiff(rates44to48),
			classify.FLAC: flac(rates44to96),
		},
		MaxSampleRate:    96000,
		MaxBitDepth:      24,
		SupportsLossless: true,
	},
	"cdj_3000": {
		ID:          "cdj_3000",
		Name:        "CDJ-3000",
		Year:        2020,
		Description: "Current flagship - High resolution support",
		Formats: map[classify.Category]AudioFormat{
			classify.MP3:  mp3(44100, 48000),
			classify.AAC:  aac(44100, 48000),
			classify.WAV:  wav(rates44to96),
			classify.AIFF: aiff(rates44to96),
			classify.FLAC: flac(rates44to96),
			classify.ALAC: alac(rates44to96),
		},
		MaxSampleRate:    96000,
		MaxBitDepth:      24,
		SupportsLossless: true,
	},
	"xdj_1000_mk2": {
		ID:          "xdj_1000_mk2",
		Name:        "XDJ-1000MK2",
		Year:        2017,
		Description: "Optical drive-less player - FLAC support",
		Formats: map[classify.Category]AudioFormat{
			classify.MP3:  mp3(44100),
			classify.AAC:  aac(44100, 48000),
			classify.WAV:  wav(rates44to48),
			classify.AIFF: aiff(rates44to48),
			classify.FLAC: flac(rates44to96),
			classify.ALAC: alac(rates44to48),
		},
		MaxSampleRate:    96000,
		MaxBitDepth:      24,
		SupportsLossless: true,
	},
	"xdj_700": {
		ID:          "xdj_700",
		Name:        "XDJ-700",
		Year:        2015,
		Description: "Compact entry-level - Similar to CDJ-2000NXS",
		Formats: map[classify.Category]AudioFormat{
			classify.MP3:  mp3(44100),
			classify.AAC:  aac(44100, 48000),
			classify.WAV:  wav(rates44to48),
			classify.AIFF: aiff(rates44to48),
		},
		MaxSampleRate:    48000,
		MaxBitDepth:      24,
		SupportsLossless: true,
	},
}

// convertible covers formats recognised as audio that every profile can reach
// through conversion. A profile's native table takes precedence.
var convertible = map[classify.Category]AudioFormat{
	classify.FLAC: {Name: "FLAC", Extensions: []string{".flac"}, Lossless: true},
	classify.OGG:  {Name: "OGG Vorbis", Extensions: []string{".ogg", ".oga"}},
	classify.OPUS: {Name: "Opus", Extensions: []string{".opus"}},
	classify.WMA:  {Name: "WMA", Extensions: []string{".wma"}},
	classify.ALAC: {Name: "ALAC", Extensions: []string{".m4a"}, Lossless: true},
}
