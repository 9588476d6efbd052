// Package util holds small helpers shared across whisperd packages.
package util
