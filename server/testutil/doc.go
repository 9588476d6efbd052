// Package testutil provides a test server component backed by
// httptest.Server, running the same middleware chain as the real server.
//
//	srv := testutil.NewComponent()
//	srv.GinEngine().POST("/v1/audio/transcriptions", handler.Transcribe)
//	testutil.T(t).Setup(srv) // from the root testutil package
//
//	resp, _ := http.Get(srv.BaseURL() + "/health")
package testutil
