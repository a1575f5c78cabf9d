// Package backingtest provides a shared conformance test suite for Adapter
// implementations. Every adapter is exercised through the same factory-driven
// suite so new implementations only need a one-line test file.
package backingtest
