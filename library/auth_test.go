package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordDigest(t *testing.T) {
	digest, err := hashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)

	assert.True(t, checkPassword(digest, "s3cret"))
	assert.False(t, checkPassword(digest, "S3cret"))
	assert.False(t, checkPassword(digest, ""))
}
