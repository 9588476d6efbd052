// Package server provides the HTTP server for whisperd: a Gin engine behind
// a net/http server with h2c support, a standard middleware chain and
// startup port resolution.
//
// The server follows the component pattern with lifecycle management. The
// listen port is chosen when the component starts, after every component
// registered before it has started.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery rendering the OpenAI error envelope
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body size limit
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: liveness plus model load state
//   - /v1/models: static model listing for OpenAI clients
//   - /info: service and build information
//   - /metrics: Prometheus metrics
package server
