package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"
)

const (
	saltLen = 16
	keyLen  = 32
)

// PasswordHasherはargon2idでハッシュ・照合を行う。
// パラメータはハッシュ文字列自身に埋め込む（PHC形式）ので、
// 設定を変えても既存ハッシュの照合は壊れない。
type PasswordHasher struct {
	memory      uint32 // KiB
	iterations  uint32
	parallelism uint8
}

// memory-hardな下限（64MB・3回）を下回る指定は引き上げる。
func NewPasswordHasher(memoryKiB, iterations uint32, parallelism uint8) *PasswordHasher {
	if memoryKiB < 64*1024 {
		memoryKiB = 64 * 1024
	}
	if iterations < 3 {
		iterations = 3
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &PasswordHasher{
		memory:      memoryKiB,
		iterations:  iterations,
		parallelism: parallelism,
	}
}

// Hashは平文から自己記述的なハッシュ文字列を作る。
// 形式: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<key>
func (h *PasswordHasher) Hash(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plain), salt, h.iterations, h.memory, h.parallelism, keyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.iterations, h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verifyはハッシュと平文を照合する。
// 形式不明・他方式のハッシュはfalseを返す（panicもerrorも出さない）。
func (h *PasswordHasher) Verify(encoded string, plain string) bool {
	memory, iterations, parallelism, salt, key, ok := decodeHash(encoded)
	if !ok {
		return false
	}

	computed := argon2.IDKey([]byte(plain), salt, iterations, memory, parallelism, uint32(len(key)))

	//タイミング差を作らない
	return subtle.ConstantTimeCompare(computed, key) == 1
}

// ハッシュ文字列からパラメータを取り出す。
func decodeHash(encoded string) (memory, iterations uint32, parallelism uint8, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, false
	}

	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &p); err != nil {
		return 0, 0, 0, nil, nil, false
	}
	if memory == 0 || iterations == 0 || p == 0 {
		return 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	return memory, iterations, p, salt, key, true
}

// CheckStrengthはパスワードポリシー：8文字以上・大文字・小文字・数字。
// ハッシュ化の前段で呼ぶ。
func CheckStrength(plain string) bool {
	if len(plain) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
