package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetters(t *testing.T) {
	Set("1.2.3", "abc123", "2025-01-01", "ci")

	assert.Equal(t, "1.2.3", Version())
	assert.Equal(t, "abc123", Commit())
	assert.Equal(t, "2025-01-01", Date())
	assert.Equal(t, "ci", BuiltBy())
}

func TestEnrichFillsBuilder(t *testing.T) {
	Set("dev", "none", "unknown", "unknown")
	Enrich()

	assert.NotEqual(t, "unknown", BuiltBy())
}

func TestEnrichPreservesExplicitValues(t *testing.T) {
	Set("0.4.0", "deadbeef", "2025-06-01", "goreleaser")
	Enrich()

	assert.Equal(t, "0.4.0", Version())
	assert.Equal(t, "deadbeef", Commit())
	assert.Equal(t, "goreleaser", BuiltBy())
}

func TestSummary(t *testing.T) {
	Set("0.4.0", "0123456789abcdef", "2025-06-01", "goreleaser")
	assert.Equal(t, "0.4.0 (commit 0123456789ab, built 2025-06-01 by goreleaser)", Summary())

	Set("dev", "none", "unknown", "go1.25.0")
	assert.Equal(t, "dev (commit none, built unknown by go1.25.0)", Summary())
}
