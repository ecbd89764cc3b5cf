// Package profiles holds the static catalog of Pioneer CDJ/XDJ device
// capabilities and the shared table of formats that are real audio but always
// need conversion.
//
// The catalog is built once at package init and never mutated. Accessors
// return deep copies, so a caller holding a DeviceProfile can switch profiles
// wholesale without affecting other readers.
package profiles

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"cdjready/internal/classify"
	"cdjready/internal/services"
)

// AudioFormat describes one format category a device (or the shared
// convertible table) knows about. An empty SampleRates set accepts any rate;
// an empty BitDepths set means the format has no bit-depth concept.
type AudioFormat struct {
	Name        string   `json:"name" yaml:"name"`
	Extensions  []string `json:"extensions" yaml:"extensions"`
	SampleRates []int    `json:"sample_rates,omitempty" yaml:"sample_rates,omitempty"`
	BitDepths   []int    `json:"bit_depths,omitempty" yaml:"bit_depths,omitempty"`
	Lossless    bool     `json:"lossless" yaml:"lossless"`
}

// AcceptsRate reports whether rate is in the allowed set (or the set is open).
func (f AudioFormat) AcceptsRate(rate int) bool {
	return len(f.SampleRates) == 0 || slices.Contains(f.SampleRates, rate)
}

// AcceptsDepth reports whether depth is in the allowed set (or the set is open).
func (f AudioFormat) AcceptsDepth(depth int) bool {
	return len(f.BitDepths) == 0 || slices.Contains(f.BitDepths, depth)
}

func (f AudioFormat) clone() AudioFormat {
	f.Extensions = slices.Clone(f.Extensions)
	f.SampleRates = slices.Clone(f.SampleRates)
	f.BitDepths = slices.Clone(f.BitDepths)
	return f
}

// DeviceProfile is the capability descriptor of one hardware model.
type DeviceProfile struct {
	ID               string                            `json:"id" yaml:"id"`
	Name             string                            `json:"name" yaml:"name"`
	Year             int                               `json:"year" yaml:"year"`
	Description      string                            `json:"description" yaml:"description"`
	Formats          map[classify.Category]AudioFormat `json:"formats" yaml:"formats"`
	MaxSampleRate    int                               `json:"max_sample_rate" yaml:"max_sample_rate"`
	MaxBitDepth      int                               `json:"max_bit_depth" yaml:"max_bit_depth"`
	SupportsLossless bool                              `json:"supports_lossless" yaml:"supports_lossless"`
}

// Format returns the native format descriptor for category, if any.
func (p DeviceProfile) Format(category classify.Category) (AudioFormat, bool) {
	f, ok := p.Formats[category]
	if !ok {
		return AudioFormat{}, false
	}
	return f.clone(), true
}

// FormatNames returns the natively accepted categories in display order.
func (p DeviceProfile) FormatNames() []string {
	names := make([]string, 0, len(p.Formats))
	for _, c := range categoryOrder {
		if _, ok := p.Formats[c]; ok {
			names = append(names, string(c))
		}
	}
	return names
}

// NativeLossless returns the compressed lossless containers the device reads
// natively (currently FLAC only). PCM containers are always written instead
// when this is empty.
func (p DeviceProfile) NativeLossless() []string {
	if _, ok := p.Formats[classify.FLAC]; ok {
		return []string{string(classify.FLAC)}
	}
	return nil
}

// Limits is the device ceiling the conversion planner works against.
// RateCeilings holds, per natively accepted lossless container, the highest
// sample rate that container accepts on this device.
type Limits struct {
	MaxSampleRate  int
	MaxBitDepth    int
	NativeLossless []string
	RateCeilings   map[classify.Category]int
}

// RateCeiling returns the highest rate a container may be written at: the
// device maximum, lowered to the container's own accepted maximum when known.
func (l Limits) RateCeiling(container classify.Category) int {
	ceiling := l.MaxSampleRate
	if c, ok := l.RateCeilings[container]; ok && c > 0 && (ceiling <= 0 || c < ceiling) {
		ceiling = c
	}
	return ceiling
}

// Limits returns the planner view of the profile.
func (p DeviceProfile) Limits() Limits {
	ceilings := make(map[classify.Category]int)
	for category, f := range p.Formats {
		if !f.Lossless || len(f.SampleRates) == 0 {
			continue
		}
		ceilings[category] = slices.Max(f.SampleRates)
	}
	return Limits{
		MaxSampleRate:  p.MaxSampleRate,
		MaxBitDepth:    p.MaxBitDepth,
		NativeLossless: p.NativeLossless(),
		RateCeilings:   ceilings,
	}
}

func (p DeviceProfile) clone() DeviceProfile {
	out := p
	out.Formats = make(map[classify.Category]AudioFormat, len(p.Formats))
	for k, v := range p.Formats {
		out.Formats[k] = v.clone()
	}
	return out
}

// Summary is the listing view of a profile.
type Summary struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Year          int      `json:"year" yaml:"year"`
	Description   string   `json:"description" yaml:"description"`
	Formats       []string `json:"formats" yaml:"formats"`
	MaxSampleRate int      `json:"max_sample_rate" yaml:"max_sample_rate"`
	MaxBitDepth   int      `json:"max_bit_depth" yaml:"max_bit_depth"`
}

// DefaultID is the profile used when none is selected.
const DefaultID = "cdj_2000_nxs"

// Get returns a copy of the profile with the given id.
func Get(id string) (DeviceProfile, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	p, ok := catalog[key]
	if !ok {
		return DeviceProfile{}, services.Wrap(services.ErrNotFound, "profiles", "get",
			fmt.Sprintf("unknown profile %q", id), nil)
	}
	return p.clone(), nil
}

// IDs returns the profile ids in catalog order.
func IDs() []string {
	return slices.Clone(catalogOrder)
}

// List returns a summary of every profile in catalog order.
func List() []Summary {
	out := make([]Summary, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		p := catalog[id]
		out = append(out, Summary{
			ID:            p.ID,
			Name:          p.Name,
			Year:          p.Year,
			Description:   p.Description,
			Formats:       p.FormatNames(),
			MaxSampleRate: p.MaxSampleRate,
			MaxBitDepth:   p.MaxBitDepth,
		})
	}
	return out
}

// Convertible returns the shared descriptor for a category that is real audio
// but needs conversion regardless of device.
func Convertible(category classify.Category) (AudioFormat, bool) {
	f, ok := convertible[category]
	if !ok {
		return AudioFormat{}, false
	}
	return f.clone(), true
}

// ConvertibleCategories lists the shared convertible categories in display order.
func ConvertibleCategories() []classify.Category {
	keys := slices.Collect(maps.Keys(convertible))
	slices.SortFunc(keys, func(a, b classify.Category) int {
		return slices.Index(categoryOrder, a) - slices.Index(categoryOrder, b)
	})
	return keys
}
