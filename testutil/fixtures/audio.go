package fixtures

import (
	"time"

	"github.com/kbukum/whisperd/transcription"
)

// SampleWAV returns a short 16 kHz mono PCM WAV file of silence.
func SampleWAV() []byte {
	return transcription.SilenceWAV(100 * time.Millisecond)
}

// CorruptAudio returns bytes no decoder accepts.
func CorruptAudio() []byte {
	return []byte("this is not audio")
}
