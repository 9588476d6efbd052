package transcription

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"
)

// WarmUpLanguage is passed to the backend for the warm-up pass so that it
// skips language detection.
const WarmUpLanguage = "en"

const wavSampleRate = 16000

// SilenceWAV returns a 16 kHz mono 16-bit PCM WAV file holding d of silence.
func SilenceWAV(d time.Duration) []byte {
	samples := int(d.Seconds() * wavSampleRate)
	dataSize := uint32(samples * 2)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(wavSampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(wavSampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

// WarmUp transcribes one second of silence with t. The clip is written to
// dir (the system temp dir when empty) and removed afterwards. A backend that
// cannot find or download its weights fails here instead of on the first
// request.
func WarmUp(ctx context.Context, t Transcriber, dir string) error {
	f, err := os.CreateTemp(dir, "whisperd-warmup-*.wav")
	if err != nil {
		return fmt.Errorf("create warm-up clip: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, err = f.Write(SilenceWAV(time.Second))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write warm-up clip: %w", err)
	}

	if _, err := t.Transcribe(ctx, path, WarmUpLanguage); err != nil {
		return fmt.Errorf("warm-up transcription: %w", err)
	}
	return nil
}
