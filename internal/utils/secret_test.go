package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSecretRoundTrip(t *testing.T) {
    hash, err := HashSecret("wh_sec_4921")
    require.NoError(t, err)

    assert.True(t, VerifySecret(hash, "wh_sec_4921"))
    assert.False(t, VerifySecret(hash, "wh_sec_4922"))
    assert.False(t, VerifySecret(hash, ""))
    assert.False(t, VerifySecret("not-a-bcrypt-hash", "wh_sec_4921"))
}
