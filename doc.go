// Package integration contains build-tag-gated integration tests for
// contractnlp. Run them with: go test -tags integration .
package integration
