package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func counterValue(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := true
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && pair.GetValue() != want {
					matched = false
				}
			}
			if matched {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRecorderCountsChecksAndConversions(t *testing.T) {
	r := New()
	r.RecordCheck("COMPATIBLE")
	r.RecordCheck("COMPATIBLE")
	r.RecordCheck("ERROR")
	r.RecordConversionSuccess(2 * time.Second)
	r.RecordConversionFailure("timeout", 300*time.Second)

	if got := counterValue(t, r, "cdjready_checks_total", map[string]string{"status": "COMPATIBLE"}); got != 2 {
		t.Fatalf("expected 2 compatible checks, got %v", got)
	}
	if got := counterValue(t, r, "cdjready_checks_total", map[string]string{"status": "ERROR"}); got != 1 {
		t.Fatalf("expected 1 error check, got %v", got)
	}
	if got := counterValue(t, r, "cdjready_conversions_total", map[string]string{"result": "failure", "kind": "timeout"}); got != 1 {
		t.Fatalf("expected 1 timeout failure, got %v", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordCheck("COMPATIBLE")
	r.RecordConversionSuccess(time.Second)
	r.RecordConversionFailure("unknown", time.Second)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("nil recorder WriteTextfile returned error: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.RecordCheck("INCOMPATIBLE")
	path := filepath.Join(t.TempDir(), "textfile", "cdjready.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `cdjready_checks_total{status="INCOMPATIBLE"} 1`) {
		t.Fatalf("textfile missing check counter:\n%s", data)
	}
}
