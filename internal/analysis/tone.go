package analysis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// WavToneScorer computes pitch and intensity metrics from a 16-bit PCM WAV
// recording. Pitch is estimated from the zero-crossing rate and intensity
// from RMS energy; both are normalized assuming a 0-1000 Hz pitch range and
// a 0.5 max RMS.
type WavToneScorer struct{}

func NewWavToneScorer() *WavToneScorer {
	return &WavToneScorer{}
}

var (
	ErrNotWav         = errors.New("not a RIFF/WAVE file")
	ErrUnsupportedPCM = errors.New("only 16-bit PCM audio is supported")
	ErrNoAudioData    = errors.New("audio file contains no samples")
)

func (s *WavToneScorer) ScoreTone(ctx context.Context, audioPath string) (ToneResult, error) {
	if err := ctx.Err(); err != nil {
		return ToneResult{}, err
	}

	samples, sampleRate, err := readWavSamples(audioPath)
	if err != nil {
		return ToneResult{}, err
	}

	// RMS energy over normalized [-1,1] samples.
	var sumSquares float64
	for _, v := range samples {
		sumSquares += v * v
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))

	// Zero-crossing rate approximates the dominant frequency: each full
	// cycle of a periodic signal crosses zero twice.
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	pitchHz := float64(crossings) * float64(sampleRate) / (2 * float64(len(samples)))

	pitch := clamp01(pitchHz / 1000)
	intensity := clamp01(rms / 0.5)

	feedback := "Adjust pacing for clarity"
	if pitch > 0.1 && pitch < 0.5 {
		feedback = "Good tone"
	}

	return ToneResult{
		Pitch:     pitch,
		Intensity: intensity,
		Feedback:  feedback,
	}, nil
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// readWavSamples parses a RIFF/WAVE container and returns the 16-bit PCM
// samples of the first channel normalized to [-1,1], plus the sample rate.
func readWavSamples(path string) ([]float64, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read audio file: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, ErrNotWav
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		pcm           []byte
	)

	// Walk the chunk list. RIFF puts fmt before data, but chunks other
	// than fmt/data may appear anywhere and are skipped.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, ErrNotWav
			}
			audioFormat := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, 0, ErrUnsupportedPCM
			}
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if sampleRate == 0 || channels == 0 {
		return nil, 0, ErrNotWav
	}
	if len(pcm) < 2 {
		return nil, 0, ErrNoAudioData
	}

	frameSize := 2 * channels
	frames := len(pcm) / frameSize
	if frames == 0 {
		return nil, 0, ErrNoAudioData
	}

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		raw := int16(binary.LittleEndian.Uint16(pcm[i*frameSize : i*frameSize+2]))
		samples[i] = float64(raw) / 32768
	}
	return samples, sampleRate, nil
}
