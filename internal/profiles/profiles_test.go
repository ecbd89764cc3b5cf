package profiles

import (
	"errors"
	"testing"

	"cdjready/internal/classify"
	"cdjready/internal/services"
)

func TestListReturnsCatalogOrder(t *testing.T) {
	list := List()
	want := []string{"cdj_2000_nxs", "cdj_2000_nxs2", "cdj_3000", "xdj_1000_mk2", "xdj_700"}
	if len(list) != len(want) {
		t.Fatalf("expected %d profiles, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("profile %d = %s, want %s", i, list[i].ID, id)
		}
		if list[i].Name == "" || list[i].Year == 0 || len(list[i].Formats) == 0 {
			t.Fatalf("incomplete summary: %+v", list[i])
		}
	}
	if list[0].ID != DefaultID {
		t.Fatalf("expected default profile first, got %s", list[0].ID)
	}
}

func TestGetUnknownProfile(t *testing.T) {
	_, err := Get("cdj_9000")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	p, err := Get(" CDJ_3000 ")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.Name != "CDJ-3000" || p.MaxSampleRate != 96000 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	p, err := Get("cdj_2000_nxs")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	wavFmt := p.Formats[classify.WAV]
	wavFmt.SampleRates[0] = 1
	delete(p.Formats, classify.MP3)

	again, _ := Get("cdj_2000_nxs")
	if again.Formats[classify.WAV].SampleRates[0] != 44100 {
		t.Fatal("catalog sample rates were mutated through a copy")
	}
	if _, ok := again.Format(classify.MP3); !ok {
		t.Fatal("catalog formats were mutated through a copy")
	}
}

func TestProfileCapabilities(t *testing.T) {
	nxs, _ := Get("cdj_2000_nxs")
	if _, ok := nxs.Format(classify.FLAC); ok {
		t.Fatal("CDJ-2000 Nexus should not read FLAC natively")
	}
	if nxs.MaxSampleRate != 48000 || nxs.MaxBitDepth != 24 {
		t.Fatalf("unexpected nxs ceiling: %d/%d", nxs.MaxSampleRate, nxs.MaxBitDepth)
	}
	if len(nxs.NativeLossless()) != 0 {
		t.Fatalf("expected no native lossless container, got %v", nxs.NativeLossless())
	}

	nxs2, _ := Get("cdj_2000_nxs2")
	f, ok := nxs2.Format(classify.FLAC)
	if !ok || !f.AcceptsRate(96000) || !f.AcceptsDepth(24) {
		t.Fatalf("expected nxs2 FLAC up to 96k/24, got %+v", f)
	}
	if got := nxs2.NativeLossless(); len(got) != 1 || got[0] != "FLAC" {
		t.Fatalf("unexpected native lossless list: %v", got)
	}

	cdj3000, _ := Get("cdj_3000")
	if _, ok := cdj3000.Format(classify.ALAC); !ok {
		t.Fatal("CDJ-3000 should read ALAC natively")
	}
	mp3Fmt, _ := cdj3000.Format(classify.MP3)
	if !mp3Fmt.AcceptsRate(48000) || !mp3Fmt.AcceptsDepth(16) {
		t.Fatalf("unexpected CDJ-3000 MP3 descriptor: %+v", mp3Fmt)
	}
}

func TestConvertibleTable(t *testing.T) {
	for _, c := range []classify.Category{classify.FLAC, classify.OGG, classify.OPUS, classify.WMA, classify.ALAC} {
		if _, ok := Convertible(c); !ok {
			t.Fatalf("expected %s in convertible table", c)
		}
	}
	if _, ok := Convertible(classify.MP3); ok {
		t.Fatal("MP3 should not be in the convertible table")
	}
	if f, _ := Convertible(classify.OGG); f.Lossless {
		t.Fatal("OGG must be lossy")
	}
	cats := ConvertibleCategories()
	if len(cats) != 5 || cats[0] != classify.FLAC || cats[len(cats)-1] != classify.WMA {
		t.Fatalf("unexpected convertible ordering: %v", cats)
	}
}

func TestFormatNamesOrder(t *testing.T) {
	p, _ := Get("cdj_3000")
	got := p.FormatNames()
	want := []string{"MP3", "AAC", "WAV", "AIFF", "FLAC", "ALAC"}
	if len(got) != len(want) {
		t.Fatalf("FormatNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FormatNames = %v, want %v", got, want)
		}
	}
}

func TestLimitsUseContainerCeilings(t *testing.T) {
	p, _ := Get("cdj_2000_nxs2")
	limits := p.Limits()
	if limits.MaxSampleRate != 96000 || limits.MaxBitDepth != 24 {
		t.Fatalf("unexpected device maxima: %+v", limits)
	}
	if got := limits.RateCeiling(classify.WAV); got != 48000 {
		t.Fatalf("expected WAV ceiling 48000, got %d", got)
	}
	if got := limits.RateCeiling(classify.FLAC); got != 96000 {
		t.Fatalf("expected FLAC ceiling 96000, got %d", got)
	}
	if len(limits.NativeLossless) != 1 || limits.NativeLossless[0] != "FLAC" {
		t.Fatalf("expected FLAC as native lossless container, got %v", limits.NativeLossless)
	}

	entry, _ := Get(DefaultID)
	if got := entry.Limits().NativeLossless; len(got) != 0 {
		t.Fatalf("entry profile should not read FLAC natively, got %v", got)
	}
}
