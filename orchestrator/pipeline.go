// Package orchestrator wires the pipeline stages together: audio prep,
// silence trimming, diarization, segment post-processing, role assignment,
// parallel feature extraction, classification, and report assembly.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AmeyaChoudhary/VociusAI/audioio"
	"github.com/AmeyaChoudhary/VociusAI/classify"
	"github.com/AmeyaChoudhary/VociusAI/clients"
	"github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/dsp"
	"github.com/AmeyaChoudhary/VociusAI/feature"
	"github.com/AmeyaChoudhary/VociusAI/report"
	"github.com/AmeyaChoudhary/VociusAI/runstore"
	"github.com/AmeyaChoudhary/VociusAI/segment"
	"github.com/AmeyaChoudhary/VociusAI/trim"
)

const insufficientDataReport = "No merged segments of sufficient length found after diarization and trimming.\n" +
	"Try a longer recording or lower segments.min_merged_sec.\n"

type Pipeline struct {
	cfg  *config.Root
	http *clients.HTTP
	log  *logrus.Entry
}

func NewPipeline(c *config.Root) *Pipeline {
	return &Pipeline{cfg: c, http: clients.NewHTTP(), log: logrus.WithField("stage", "pipeline")}
}

// Run executes one full analysis. Input errors surface before any work
// starts; an insufficient-data outcome writes an explanatory report instead
// of a metrics report and is not treated as a failure.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	start := time.Now()

	if _, err := os.Stat(opts.AudioPath); err != nil {
		return fmt.Errorf("input audio: %w", err)
	}
	if !audioio.ValidateFormat(opts.AudioPath) {
		return fmt.Errorf("input audio: unsupported format %q", filepath.Ext(opts.AudioPath))
	}

	runID, workDir, err := p.prepareRun(opts)
	if err != nil {
		return err
	}
	store := p.openStore(runID, workDir, opts)

	status, runErr := p.analyze(ctx, opts, workDir)
	p.finishRun(store, runID, workDir, opts, status, start, runErr)
	return runErr
}

func (p *Pipeline) prepareRun(opts Options) (string, string, error) {
	_, workDir, err := mkSessionDir(p.cfg.Paths.Outputs, opts.WorkDir)
	if err != nil {
		return "", "", fmt.Errorf("work dir: %w", err)
	}
	return uuid.New().String(), workDir, nil
}

func (p *Pipeline) openStore(runID, workDir string, opts Options) *runstore.Store {
	store, err := runstore.Open(p.cfg.Paths.RunDB)
	if err != nil {
		p.log.WithError(err).Warn("run index unavailable")
		return nil
	}
	err = store.Record(runstore.Run{
		ID:        runID,
		AudioPath: opts.AudioPath,
		WorkDir:   workDir,
		Status:    runstore.StatusRunning,
		CreatedAt: time.Now(),
	})
	if err != nil {
		p.log.WithError(err).Warn("run index write failed")
	}
	return store
}

func (p *Pipeline) finishRun(store *runstore.Store, runID, workDir string, opts Options, status string, start time.Time, runErr error) {
	elapsed := time.Since(start).Seconds()
	manifest := Manifest{
		Program:    p.cfg.Pipeline.Name,
		Version:    p.cfg.Pipeline.Version,
		Status:     status,
		Args:       opts,
		StartedAt:  start.UTC().Format(time.RFC3339),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
		ElapsedSec: dsp.Round(elapsed, 3),
	}
	if runErr != nil {
		manifest.ErrorDetail = runErr.Error()
	}
	if err := writeJSON(filepath.Join(workDir, "run.json"), manifest); err != nil {
		p.log.WithError(err).Warn("run manifest write failed")
	}
	if store != nil {
		if err := store.Finish(runID, status, filepath.Join(workDir, "analyze_speech.txt"), elapsed); err != nil {
			p.log.WithError(err).Warn("run index update failed")
		}
		store.Close()
	}
	p.log.WithFields(logrus.Fields{"status": status, "elapsed_sec": dsp.Round(elapsed, 1)}).Info("run finished")
}

// analyze is the core pipeline. It returns the run status alongside any
// error so the manifest can distinguish insufficient data from a crash.
func (p *Pipeline) analyze(ctx context.Context, opts Options, workDir string) (string, error) {
	log := p.log

	log.Info("converting input to mono WAV")
	wavPath, err := audioio.EnsureMonoWAV(opts.AudioPath, p.cfg.Audio.SampleRate, workDir)
	if err != nil {
		return runstore.StatusError, err
	}

	samples, sr, err := audioio.ReadWAV(wavPath)
	if err != nil {
		return runstore.StatusError, err
	}

	log.Info("trimming silence")
	trimmed := trim.New(p.cfg.Trim, sr).Trim(samples)
	trimmedPath := filepath.Join(workDir, "trimmed.wav")
	if err := audioio.WriteWAV(trimmedPath, trimmed, sr); err != nil {
		return runstore.StatusError, err
	}

	raw, err := p.diarize(ctx, opts, trimmedPath)
	if err != nil {
		return runstore.StatusError, err
	}
	if err := writeJSON(filepath.Join(workDir, "segments.json"), raw); err != nil {
		return runstore.StatusError, err
	}

	res, err := segment.NewProcessor(p.cfg.Segments).Process(raw)
	if errors.Is(err, segment.ErrInsufficientData) {
		log.Warn("no analyzable segments, writing explanatory report")
		if werr := writeText(filepath.Join(workDir, "analyze_speech.txt"), insufficientDataReport); werr != nil {
			return runstore.StatusError, werr
		}
		return runstore.StatusInsufficientData, nil
	}
	if err != nil {
		return runstore.StatusError, err
	}
	if err := writeJSON(filepath.Join(workDir, "merged_segments.json"), res.Merged); err != nil {
		return runstore.StatusError, err
	}
	if err := writeJSON(filepath.Join(workDir, "selected.json"), res.Selected); err != nil {
		return runstore.StatusError, err
	}

	first, second := opts.Team1, opts.Team2
	if !strings.EqualFold(opts.First, opts.Team1) {
		first, second = opts.Team2, opts.Team1
	}
	roles := segment.AssignRoles(res.Selected, segment.RoleTemplate(first, second), p.cfg.Segments.TopSpeakers)

	records, err := p.extractFeatures(trimmed, sr, res.Selected, workDir)
	if err != nil {
		return runstore.StatusError, err
	}
	if err := writeJSON(filepath.Join(workDir, "delivery_metrics.json"), records); err != nil {
		return runstore.StatusError, err
	}

	summaries := report.Assemble(records, roles)
	reportFile, err := os.Create(filepath.Join(workDir, "analyze_speech.txt"))
	if err != nil {
		return runstore.StatusError, err
	}
	if err := report.Render(reportFile, summaries); err != nil {
		reportFile.Close()
		return runstore.StatusError, err
	}
	if err := reportFile.Close(); err != nil {
		return runstore.StatusError, err
	}
	log.WithField("speakers", len(summaries)).Info("delivery report written")

	if err := p.judge(ctx, opts, wavPath, workDir); err != nil {
		return runstore.StatusError, err
	}
	return runstore.StatusOK, nil
}

// diarize obtains raw speaker intervals, either from a previously produced
// JSON checkpoint or by calling the diarization oracle.
func (p *Pipeline) diarize(ctx context.Context, opts Options, trimmedPath string) ([]segment.Interval, error) {
	if opts.DiarizationJSON != "" {
		p.log.WithField("file", opts.DiarizationJSON).Info("reusing diarization JSON")
		data, err := os.ReadFile(opts.DiarizationJSON)
		if err != nil {
			return nil, fmt.Errorf("diarization reuse: %w", err)
		}
		return segment.ParseDiarization(data)
	}
	svc := p.cfg.Services.Diarization
	if svc.URL == "" {
		return nil, fmt.Errorf("no diarization service configured and no --diarization-json given")
	}
	p.log.Info("running diarization, this may take a while")
	return p.http.Diarize(ctx, svc, trimmedPath, p.cfg.Segments.TopSpeakers)
}

// extractFeatures fans the selected intervals out over the worker pool and
// classifies each resulting vector. Results are keyed by interval index, so
// output order matches the start-sorted selection regardless of completion
// order.
func (p *Pipeline) extractFeatures(trimmed []float64, sr int, selected []segment.Interval, workDir string) ([]report.Record, error) {
	clipsDir := filepath.Join(workDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return nil, err
	}

	jobs := make([]feature.Job, len(selected))
	for i, iv := range selected {
		clip := audioio.ExtractClip(trimmed, sr, iv.Start, iv.End)
		jobs[i] = feature.Job{Index: i, Samples: clip}

		name := fmt.Sprintf("%s_%d_%d.wav",
			strings.NewReplacer("/", "_", " ", "_").Replace(iv.Speaker),
			int(iv.Start*1000), int(iv.End*1000))
		if err := audioio.WriteWAV(filepath.Join(clipsDir, name), clip, sr); err != nil {
			return nil, fmt.Errorf("clip %s: %w", name, err)
		}
	}

	p.log.WithFields(logrus.Fields{"intervals": len(jobs), "workers": p.cfg.Workers.Count}).
		Info("analysing selected segments")

	extractor := feature.NewExtractor(p.cfg.Audio, p.cfg.Pause, dsp.NewACFTracker())
	vectors, err := feature.MapConcurrent(jobs, p.cfg.Workers.Count, func(j feature.Job) (feature.Vector, error) {
		return extractor.Extract(j.Samples, selected[j.Index])
	})
	if err != nil {
		return nil, fmt.Errorf("feature extraction: %w", err)
	}

	classifier := classify.New(p.cfg.Classify)
	records := make([]report.Record, len(vectors))
	for i, v := range vectors {
		records[i] = report.Record{Vector: v, Label: classifier.Classify(v)}
	}
	return records, nil
}

// judge optionally transcribes the recording and requests LLM judging
// feedback. Both calls happen strictly after the core pipeline.
func (p *Pipeline) judge(ctx context.Context, opts Options, wavPath, workDir string) error {
	if opts.NoJudge {
		p.log.Info("judging skipped")
		return nil
	}
	if p.cfg.Services.Judge.URL == "" {
		return nil
	}

	transcriptPath := filepath.Join(workDir, "transcript.txt")
	var transcript string
	if opts.ReuseTranscript {
		data, err := os.ReadFile(transcriptPath)
		if err == nil && len(data) > 0 {
			p.log.Info("reusing existing transcript")
			transcript = string(data)
		}
	}
	if transcript == "" {
		if p.cfg.Services.Transcription.URL == "" {
			return fmt.Errorf("judging requested but no transcription service configured")
		}
		p.log.Info("transcribing recording")
		text, err := p.http.Transcribe(ctx, p.cfg.Services.Transcription, wavPath)
		if err != nil {
			return err
		}
		transcript = text
		if err := writeText(transcriptPath, transcript); err != nil {
			return err
		}
	}

	catalog, err := clients.LoadStyles(p.cfg.Paths.Styles)
	if err != nil {
		return err
	}
	prompt, err := catalog.BuildPrompt(p.cfg.Paths.Styles, opts.Style, opts.Topic, opts.First, transcript)
	if err != nil {
		return err
	}
	if err := writeText(filepath.Join(workDir, "prompt_used.txt"), prompt); err != nil {
		return err
	}

	p.log.WithField("model", opts.Model).Info("requesting judge feedback")
	feedback, err := p.http.Judge(ctx, p.cfg.Services.Judge, opts.Model, prompt)
	if err != nil {
		return err
	}
	if err := writeText(filepath.Join(workDir, "judging_feedback.txt"), feedback.Feedback); err != nil {
		return err
	}
	return writeJSON(filepath.Join(workDir, "judge_feedback.json"), feedback)
}
