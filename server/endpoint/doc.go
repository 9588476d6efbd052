// Package endpoint provides the gateway's fixed HTTP endpoints: health,
// model listing, service info and metrics.
package endpoint
