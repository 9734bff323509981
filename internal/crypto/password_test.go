package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(64*1024, 3, 1)

	encoded, err := h.Hash("Secret123")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	// 正しいパスワードは通る
	assert.True(t, h.Verify(encoded, "Secret123"))

	// 間違いは通らない
	assert.False(t, h.Verify(encoded, "Secret124"))
	assert.False(t, h.Verify(encoded, ""))
}

func TestPasswordHasher_HashIsSalted(t *testing.T) {
	h := NewPasswordHasher(64*1024, 3, 1)

	a, err := h.Hash("Secret123")
	assert.NoError(t, err)
	b, err := h.Hash("Secret123")
	assert.NoError(t, err)

	// saltが毎回違うので同じ平文でもhashは一致しない
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	h := NewPasswordHasher(64*1024, 3, 1)

	// 壊れたhashはpanicせずfalse
	assert.False(t, h.Verify("", "Secret123"))
	assert.False(t, h.Verify("not-a-hash", "Secret123"))
	assert.False(t, h.Verify("$argon2id$v=19$m=65536,t=3,p=1$!!!$!!!", "Secret123"))
	assert.False(t, h.Verify("$bcrypt$whatever", "Secret123"))
}

func TestPasswordHasher_EnforcesFloor(t *testing.T) {
	// 弱すぎるパラメータを渡しても下限（64MB・3回・並列1）まで引き上げる
	h := NewPasswordHasher(1, 1, 0)

	encoded, err := h.Hash("Secret123")
	assert.NoError(t, err)
	assert.Contains(t, encoded, "m=65536,t=3,p=1")
	assert.True(t, h.Verify(encoded, "Secret123"))
}

func TestCheckStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Secret123", true},
		{"Aa1aaaaa", true},
		{"short1A", false},    // 8文字未満
		{"secret123", false},  // 大文字なし
		{"SECRET123", false},  // 小文字なし
		{"Secretpass", false}, // 数字なし
		{"", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CheckStrength(c.password), "password=%q", c.password)
	}
}
