// Package testutil provides test doubles and helpers shared by whisperd's
// package tests: a stub transcriber, a fake whisper CLI, multipart upload
// builders and component lifecycle helpers.
//
//	stub := testutil.NewStubTranscriber("hello world")
//	req := testutil.NewUploadRequest(t, "/v1/audio/transcriptions", "sample.wav", fixtures.SampleWAV(), nil)
//
// Components started through T(t).Setup are stopped when the test ends.
package testutil
