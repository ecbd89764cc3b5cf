package convert_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"cdjready/internal/audiometa"
	"cdjready/internal/classify"
	"cdjready/internal/compat"
	"cdjready/internal/convert"
	"cdjready/internal/planner"
	"cdjready/internal/testsupport"
)

func TestPoolRunReportsProgress(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedTools(testsupport.FFmpegOK, 48000), testsupport.WithWorkers(2))
	var jobs []convert.Job
	for i := range 5 {
		jobs = append(jobs, newJob(t, cfg, fmt.Sprintf("track%d.flac", i), 48000))
	}

	pool := convert.NewPool(cfg, convert.NewTranscoder(cfg, nil), nil, nil)
	var (
		mu    sync.Mutex
		calls []int
	)
	outcomes := pool.Run(context.Background(), jobs, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != len(jobs) {
			t.Errorf("progress total = %d, want %d", total, len(jobs))
		}
		calls = append(calls, done)
	})

	if len(outcomes) != len(jobs) {
		t.Fatalf("expected %d outcomes, got %d", len(jobs), len(outcomes))
	}
	summary := convert.Summarize(outcomes)
	if summary.Successful != len(jobs) || summary.Failed != 0 || len(summary.Outputs) != len(jobs) {
		t.Fatalf("unexpected summary %+v", summary)
	}
	for i, done := range calls {
		if done != i+1 {
			t.Fatalf("progress calls out of sequence: %v", calls)
		}
	}
}

func TestPoolRunCancelledBeforeStart(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedTools(testsupport.FFmpegOK, 48000))
	jobs := []convert.Job{newJob(t, cfg, "a.flac", 48000), newJob(t, cfg, "b.flac", 48000)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := convert.NewPool(cfg, convert.NewTranscoder(cfg, nil), nil, nil).Run(ctx, jobs, nil)
	if len(outcomes) != len(jobs) {
		t.Fatalf("expected an outcome per job, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Success || o.Kind != convert.KindCancelled || !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("expected cancelled outcome, got %+v", o)
		}
	}
}

func TestPoolRunEmpty(t *testing.T) {
	pool := &convert.Pool{}
	if got := pool.Run(context.Background(), nil, nil); len(got) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(got))
	}
}

func TestJobsFromResults(t *testing.T) {
	plan := &planner.ConversionPlan{OutputFormat: classify.WAV, TargetSampleRate: 44100, TargetBitDepth: 16, Resample: true}
	results := []compat.Result{
		{Path: "ok.mp3", Status: compat.StatusCompatible},
		{Path: "lossy.ogg", Status: compat.StatusConvertibleLossy, Plan: plan, Metadata: audiometa.AudioMetadata{SampleRate: 44100}},
		{Path: "hires.wav", Status: compat.StatusConvertibleLossless, Plan: plan, Metadata: audiometa.AudioMetadata{SampleRate: 96000}},
		{Path: "bad.xyz", Status: compat.StatusIncompatible},
		{Path: "err.flac", Status: compat.StatusError},
	}

	jobs := convert.JobsFromResults(results, nil)
	if len(jobs) != 2 || jobs[0].Source != "lossy.ogg" || jobs[1].Source != "hires.wav" {
		t.Fatalf("unexpected jobs %+v", jobs)
	}

	override := &planner.ConversionPlan{OutputFormat: classify.AIFF, TargetSampleRate: 44100, TargetBitDepth: 24}
	jobs = convert.JobsFromResults(results, override)
	if jobs[0].Plan.OutputFormat != classify.AIFF || jobs[0].Plan.Resample {
		t.Fatalf("expected override without resampling for a 44.1k source, got %+v", jobs[0].Plan)
	}
	if !jobs[1].Plan.Resample {
		t.Fatalf("expected resampling for a 96k source under override")
	}
}

func TestSummarizeCountsCopies(t *testing.T) {
	summary := convert.Summarize([]convert.Outcome{
		{Success: true, Output: "a.wav"},
		{Success: true, Copied: true, Output: "b.mp3"},
		{Kind: convert.KindTimeout},
	})
	if summary.Total != 3 || summary.Successful != 2 || summary.Failed != 1 || summary.Copied != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.HasFailures() {
		t.Fatalf("expected HasFailures")
	}
}

func TestPoolRunLogsOutcomeDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedTools(testsupport.FFmpegOK, 48000))
	jobs := []convert.Job{newJob(t, cfg, "ok.flac", 48000)}
	convert.NewPool(cfg, convert.NewTranscoder(cfg, logger), nil, logger).Run(context.Background(), jobs, nil)
	logs := buf.String()
	for _, want := range []string{`"resampled":`, `"target_khz":48`, `"output_bytes":`} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %s in logs:\n%s", want, logs)
		}
	}
	if strings.Contains(logs, `"alert"`) {
		t.Fatalf("unexpected alert for clean batch:\n%s", logs)
	}

	buf.Reset()
	failing := testsupport.NewConfig(t, testsupport.WithStubbedTools(testsupport.FFmpegCorrupt, 48000))
	jobs = []convert.Job{newJob(t, failing, "bad.flac", 48000)}
	convert.NewPool(failing, convert.NewTranscoder(failing, logger), nil, logger).Run(context.Background(), jobs, nil)
	if !strings.Contains(buf.String(), `"alert":"conversion_failures"`) {
		t.Fatalf("expected failure alert in logs:\n%s", buf.String())
	}
}
