package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword 计算口令的 SHA-256 摘要（小写十六进制）
// 无盐、单轮，与既有存量摘要保持兼容，仅用于相等比较
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
