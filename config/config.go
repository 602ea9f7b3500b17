package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Service struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

type Services struct {
	Diarization   Service `mapstructure:"diarization"`
	Transcription Service `mapstructure:"transcription"`
	Judge         Service `mapstructure:"judge"`
}

type Audio struct {
	SampleRate  int `mapstructure:"sample_rate"`
	FrameLength int `mapstructure:"frame_length"`
	HopLength   int `mapstructure:"hop_length"`
}

// Trim controls the silence trimmer. When Adaptive is true the voice floor is
// anchored at the 95th-percentile frame level minus RelativeDropDb; otherwise
// FloorDb is used as an absolute dBFS floor.
type Trim struct {
	Adaptive       bool    `mapstructure:"adaptive"`
	FloorDb        float64 `mapstructure:"floor_db"`
	RelativeDropDb float64 `mapstructure:"relative_drop_db"`
	FrameMs        int     `mapstructure:"frame_ms"`
	HopMs          int     `mapstructure:"hop_ms"`
	MinPauseSec    float64 `mapstructure:"min_pause_sec"`
	MinSpeechSec   float64 `mapstructure:"min_speech_sec"`
}

type Segments struct {
	MinTurnSec     float64 `mapstructure:"min_turn_sec"`
	MaxMergeGapSec float64 `mapstructure:"max_merge_gap_sec"`
	MinMergedSec   float64 `mapstructure:"min_merged_sec"`
	TopSpeakers    int     `mapstructure:"top_speakers"`
	PerSpeaker     int     `mapstructure:"per_speaker"`
}

// Pause is the looser, clip-internal speech/silence split used for pacing
// metrics. DropDb is relative to the loudest frame of the clip.
type Pause struct {
	DropDb float64 `mapstructure:"drop_db"`
}

type Classify struct {
	ExpressiveCentroidVar float64 `mapstructure:"expressive_centroid_var"`
	NeutralCentroidVar    float64 `mapstructure:"neutral_centroid_var"`
	PassionateRangeDb     float64 `mapstructure:"passionate_range_db"`
	BalancedRangeDb       float64 `mapstructure:"balanced_range_db"`
	VeryFastRatio         float64 `mapstructure:"very_fast_ratio"`
	FastRatio             float64 `mapstructure:"fast_ratio"`
	ModerateRatio         float64 `mapstructure:"moderate_ratio"`
	ShortPauseSec         float64 `mapstructure:"short_pause_sec"`
}

type Workers struct {
	Count int `mapstructure:"count"`
}

type Paths struct {
	Outputs string `mapstructure:"outputs"`
	Styles  string `mapstructure:"styles"`
	RunDB   string `mapstructure:"run_db"`
}

type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		LogLvl  string `mapstructure:"log_level"`
	} `mapstructure:"pipeline"`
	Audio    Audio    `mapstructure:"audio"`
	Trim     Trim     `mapstructure:"trim"`
	Segments Segments `mapstructure:"segments"`
	Pause    Pause    `mapstructure:"pause"`
	Classify Classify `mapstructure:"classify"`
	Workers  Workers  `mapstructure:"workers"`
	Services Services `mapstructure:"services"`
	Paths    Paths    `mapstructure:"paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "vocius")
	v.SetDefault("pipeline.version", "1.0")
	v.SetDefault("pipeline.log_level", "info")

	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.frame_length", 2048)
	v.SetDefault("audio.hop_length", 512)

	v.SetDefault("trim.adaptive", true)
	v.SetDefault("trim.floor_db", -35.0)
	v.SetDefault("trim.relative_drop_db", 35.0)
	v.SetDefault("trim.frame_ms", 25)
	v.SetDefault("trim.hop_ms", 10)
	v.SetDefault("trim.min_pause_sec", 0.20)
	v.SetDefault("trim.min_speech_sec", 0.10)

	v.SetDefault("segments.min_turn_sec", 15.0)
	v.SetDefault("segments.max_merge_gap_sec", 0.1)
	v.SetDefault("segments.min_merged_sec", 60.0)
	v.SetDefault("segments.top_speakers", 4)
	v.SetDefault("segments.per_speaker", 2)

	v.SetDefault("pause.drop_db", 25.0)

	v.SetDefault("classify.expressive_centroid_var", 5e6)
	v.SetDefault("classify.neutral_centroid_var", 2e6)
	v.SetDefault("classify.passionate_range_db", 10.0)
	v.SetDefault("classify.balanced_range_db", 4.0)
	v.SetDefault("classify.very_fast_ratio", 0.85)
	v.SetDefault("classify.fast_ratio", 0.6)
	v.SetDefault("classify.moderate_ratio", 0.4)
	v.SetDefault("classify.short_pause_sec", 0.2)

	v.SetDefault("workers.count", 4)

	v.SetDefault("paths.outputs", "out")
	v.SetDefault("paths.styles", "styles.yaml")
	v.SetDefault("paths.run_db", "runs.db")
}

// Load reads vocius.yaml from the working directory or ./config, applies
// VOCIUS_* environment overrides, and falls back to built-in defaults.
// A missing config file is not an error.
func Load() (*Root, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("vocius")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("VOCIUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
