package audioio

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var supportedFormats = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".aac", ".wma"}

// ValidateFormat reports whether the file extension is a container ffmpeg is
// expected to handle.
func ValidateFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// EnsureMonoWAV converts any supported input to a mono 16-bit PCM WAV at the
// given sample rate, written into dir under a unique name. ffmpeg is treated
// as a black box; its stderr is surfaced on failure.
func EnsureMonoWAV(inputPath string, sampleRate int, dir string) (string, error) {
	outputPath := filepath.Join(dir, fmt.Sprintf("normalized_%s.wav", uuid.New().String()))

	cmd := exec.Command("ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", inputPath,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outputPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg failed: %v\noutput: %s", err, string(out))
	}
	return outputPath, nil
}

// ExtractClip returns the samples of one interval of the waveform, clamped to
// the signal bounds.
func ExtractClip(y []float64, sampleRate int, startSec, endSec float64) []float64 {
	i0 := int(startSec * float64(sampleRate))
	i1 := int(endSec * float64(sampleRate))
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(y) {
		i1 = len(y)
	}
	if i1 <= i0 {
		return nil
	}
	return y[i0:i1]
}
