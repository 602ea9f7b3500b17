package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AmeyaChoudhary/VociusAI/audioio"
	cfg "github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/orchestrator"
	"github.com/AmeyaChoudhary/VociusAI/runstore"
	"github.com/AmeyaChoudhary/VociusAI/trim"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig() (*cfg.Root, error) {
	conf, err := cfg.Load()
	if err != nil {
		return nil, err
	}
	if lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl); err == nil {
		logrus.SetLevel(lvl)
	}
	return conf, nil
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocius",
		Short:         "Debate delivery analysis pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(analyzeCmd(), trimCmd(), runsCmd())
	return root
}

func analyzeCmd() *cobra.Command {
	var opts orchestrator.Options
	cmd := &cobra.Command{
		Use:   "analyze <audio>",
		Short: "Analyse a debate recording and generate delivery feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.AudioPath = args[0]
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			return orchestrator.NewPipeline(conf).Run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Team1, "team1", "Aff", "label of the first team")
	cmd.Flags().StringVar(&opts.Team2, "team2", "Neg", "label of the second team")
	cmd.Flags().StringVar(&opts.First, "first", "", "which team speaks first (required)")
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "debate topic (for judging)")
	cmd.Flags().StringVar(&opts.Style, "style", "lay", "judging style (lay, flay, tech, prog)")
	cmd.Flags().StringVar(&opts.Model, "model", "gpt-4o", "judge model name")
	cmd.Flags().StringVar(&opts.WorkDir, "work-dir", "", "output directory (default: a fresh session dir)")
	cmd.Flags().StringVar(&opts.DiarizationJSON, "diarization-json", "", "reuse a previously produced diarization JSON")
	cmd.Flags().BoolVar(&opts.ReuseTranscript, "reuse-transcript", false, "reuse transcript.txt in the work dir")
	cmd.Flags().BoolVar(&opts.NoJudge, "no-judge", false, "skip transcription and LLM judging")
	_ = cmd.MarkFlagRequired("first")
	return cmd
}

func trimCmd() *cobra.Command {
	var relDrop, minPause float64
	cmd := &cobra.Command{
		Use:   "trim <input> <output>",
		Short: "Trim silence from a recording and write the result as WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rel-drop-db") {
				conf.Trim.RelativeDropDb = relDrop
			}
			if cmd.Flags().Changed("min-pause") {
				conf.Trim.MinPauseSec = minPause
			}

			wavPath, err := audioio.EnsureMonoWAV(args[0], conf.Audio.SampleRate, filepath.Dir(args[1]))
			if err != nil {
				return err
			}
			defer os.Remove(wavPath)

			samples, sr, err := audioio.ReadWAV(wavPath)
			if err != nil {
				return err
			}
			trimmed := trim.New(conf.Trim, sr).Trim(samples)
			if err := audioio.WriteWAV(args[1], trimmed, sr); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"before_sec": float64(len(samples)) / float64(sr),
				"after_sec":  float64(len(trimmed)) / float64(sr),
			}).Info("trimmed audio written")
			return nil
		},
	}
	cmd.Flags().Float64Var(&relDrop, "rel-drop-db", 35.0, "higher = gentler, lower = harsher")
	cmd.Flags().Float64Var(&minPause, "min-pause", 0.20, "bridge pauses shorter than this (seconds)")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(conf.Paths.RunDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				id := r.ID
				if len(id) > 8 {
					id = id[:8]
				}
				fmt.Printf("%s  %-8s  %-17s  %6.1fs  %s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					id, r.Status, r.ElapsedSec, r.AudioPath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}
