// File: internal/service/password.go
package service

import (
	"sync"

	"bookshelf/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

// 測試時可覆寫
var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	bcryptCost                   = bcrypt.DefaultCost
)

// bcrypt 只接受 72 bytes 以內的密碼
const MaxPasswordBytes = 72

// checkPassword 以 byte 長度檢查，多位元組字元會超出 validator 的字元計數
func checkPassword(field, password string) error {
	if password == "" {
		return apperr.Validationf("%s is required", field)
	}
	if len(password) > MaxPasswordBytes {
		return apperr.Validationf("%s must be at most %d bytes", field, MaxPasswordBytes)
	}
	return nil
}

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnCompare 在使用者不存在時仍執行一次比對，讓回應時間與密碼錯誤相近
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("not-a-real-password")
	})
	_ = ComparePassword(dummyHash, password)
}
