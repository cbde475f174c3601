package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "v1.0.0", ""
	assert.Equal(t, "v1.0.0", String())

	Commit = "0123456789abcdef"
	assert.Equal(t, "v1.0.0+0123456", String())
}
