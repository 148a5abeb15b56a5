package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	original := Version
	Version = v
	resetParsedVersion()
	t.Cleanup(func() {
		Version = original
		resetParsedVersion()
	})
}

func TestParsed_DevBuild(t *testing.T) {
	withVersion(t, "dev")

	assert.Nil(t, Parsed())
	assert.True(t, IsDevBuild())
}

func TestParsed_ValidVersion(t *testing.T) {
	withVersion(t, "1.2.3")

	v := Parsed()
	assert.NotNil(t, v)
	assert.False(t, IsDevBuild())
}

func TestCompare(t *testing.T) {
	withVersion(t, "1.2.3")

	assert.Equal(t, -1, Compare("1.3.0"))
	assert.Equal(t, 0, Compare("1.2.3"))
	assert.Equal(t, 1, Compare("1.0.0"))
	assert.Equal(t, 0, Compare("not-a-version"))
}

func TestUpdateAvailable(t *testing.T) {
	withVersion(t, "1.2.3")

	assert.True(t, UpdateAvailable("1.2.4"))
	assert.False(t, UpdateAvailable("1.2.3"))
	assert.False(t, UpdateAvailable("1.0.0"))
	assert.False(t, UpdateAvailable("garbage"))
}

func TestUpdateAvailable_DevBuild(t *testing.T) {
	withVersion(t, "dev")

	assert.False(t, UpdateAvailable("99.0.0"), "dev builds never report updates")
}
