package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("secreto")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto", hashed)

	assert.True(t, CheckPassword(hashed, "secreto"))
	assert.False(t, CheckPassword(hashed, "otro"))
}

func TestCheckPasswordWerkzeugPBKDF2(t *testing.T) {
	hashed := "pbkdf2:sha256:1000$abcdefgh$02ecc854f6f0eea09157f81e03e49c08414e859469596a31b18fdd1b10834324"

	assert.True(t, CheckPassword(hashed, "secreto"))
	assert.False(t, CheckPassword(hashed, "Secreto"))
}

func TestCheckPasswordWerkzeugScrypt(t *testing.T) {
	hashed := "scrypt:1024:8:1$abcdefgh$0cf4ddc9a298e1e2108e1978055bdef9f1b3d02301343cf4137dbfb2153081858b7c26bda7b8ed8663bff39d7745766e393c4de772da67c506d12fd01f60692b"

	assert.True(t, CheckPassword(hashed, "secreto"))
	assert.False(t, CheckPassword(hashed, "secret"))
}

func TestCheckPasswordMalformed(t *testing.T) {
	for _, h := range []string{
		"",
		"pbkdf2:sha256",
		"pbkdf2:md5:1000$salt$00",
		"pbkdf2:sha256:abc$salt$00",
		"pbkdf2:sha256:1000$salt$not-hex",
		"plaintext",
	} {
		assert.False(t, CheckPassword(h, "secreto"), h)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("flask-key")
	tok, err := IssueToken(secret, "sid", map[string]interface{}{"user_id": 1}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims.Data["user_id"])
	assert.Equal(t, "sid", claims.ID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tok, err := IssueToken([]byte("a"), "sid", map[string]interface{}{"k": "v"}, time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken([]byte("b"), tok)
	assert.Error(t, err)

	_, err = IssueToken(nil, "", nil, 0)
	assert.ErrorIs(t, err, ErrNoSecret)
}
