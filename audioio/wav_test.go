package audioio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadWAV(t *testing.T) {
	const sr = 16000
	in := make([]float64, sr/10)
	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sr)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := WriteWAV(path, in, sr); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	out, gotSR, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if gotSR != sr {
		t.Errorf("sample rate = %d, want %d", gotSR, sr)
	}
	if len(out) != len(in) {
		t.Fatalf("samples = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if math.Abs(out[i]-in[i]) > 1.0/16384 {
			t.Fatalf("sample %d = %v, want ~%v (16-bit quantization only)", i, out[i], in[i])
		}
	}
}

func TestWriteWAVClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	if err := WriteWAV(path, []float64{2.0, -3.0, 0}, 16000); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	out, _, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	for _, v := range out {
		if v > 1 || v < -1 {
			t.Errorf("sample %v out of range after clamping", v)
		}
	}
}

func TestReadWAVMissingFile(t *testing.T) {
	if _, _, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateFormat(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"round3.m4a", true},
		{"REC.MP3", true},
		{"debate.wav", true},
		{"debate.flac", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noextension", false},
	}
	for _, c := range cases {
		if got := ValidateFormat(c.name); got != c.want {
			t.Errorf("ValidateFormat(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestExtractClip(t *testing.T) {
	y := make([]float64, 16000) // 1s at 16 kHz
	for i := range y {
		y[i] = float64(i)
	}
	clip := ExtractClip(y, 16000, 0.25, 0.5)
	if len(clip) != 4000 || clip[0] != 4000 {
		t.Errorf("clip len=%d first=%v", len(clip), clip[0])
	}
	// End clamped to signal bounds.
	clip = ExtractClip(y, 16000, 0.9, 5)
	if len(clip) != 1600 {
		t.Errorf("clamped clip len = %d, want 1600", len(clip))
	}
	if ExtractClip(y, 16000, 2, 3) != nil {
		t.Error("out-of-range clip should be nil")
	}
	if ExtractClip(y, 16000, 0.5, 0.5) != nil {
		t.Error("zero-length clip should be nil")
	}
}
