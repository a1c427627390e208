package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origSHA, origTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = origVersion, origSHA, origTime })

	assert.Equal(t, "dev (unknown, built unknown)", String())

	Version, GitSHA, BuildTime = "v0.3.1", "abc1234", "2024-05-01T10:00:00Z"
	assert.Equal(t, "v0.3.1 (abc1234, built 2024-05-01T10:00:00Z)", String())
}
