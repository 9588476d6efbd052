package testutil

import (
	"context"
	"os"
	"sync"
)

// TranscribeCall records one call to StubTranscriber.
type TranscribeCall struct {
	AudioPath string
	Language  string
	// Audio is the staged file content as seen during the call.
	Audio []byte
}

// StubTranscriber returns a fixed result. It records every call, including
// the content of the staged file, so tests can check what the backend saw.
type StubTranscriber struct {
	Text string
	Err  error
	// Block, when set, holds each call until it is closed or the context ends.
	Block chan struct{}
	// Entered receives a value when a call starts, if set.
	Entered chan struct{}

	mu    sync.Mutex
	calls []TranscribeCall
}

// NewStubTranscriber returns a stub that always answers text.
func NewStubTranscriber(text string) *StubTranscriber {
	return &StubTranscriber{Text: text}
}

// Transcribe implements transcription.Transcriber.
func (s *StubTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	data, _ := os.ReadFile(audioPath)
	s.mu.Lock()
	s.calls = append(s.calls, TranscribeCall{AudioPath: audioPath, Language: language, Audio: data})
	s.mu.Unlock()

	if s.Entered != nil {
		s.Entered <- struct{}{}
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

// Calls returns a copy of the recorded calls.
func (s *StubTranscriber) Calls() []TranscribeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TranscribeCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// LastCall returns the most recent call. It panics if there were none.
func (s *StubTranscriber) LastCall() TranscribeCall {
	calls := s.Calls()
	return calls[len(calls)-1]
}
