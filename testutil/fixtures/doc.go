// Package fixtures provides audio payloads for tests.
package fixtures
