package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型，同时承载连续记录状态
// EngagementVersion 用于互动状态的乐观并发控制
type User struct {
	gorm.Model
	Name              string
	Email             string `gorm:"uniqueIndex;not null"`
	Password          string `gorm:"not null"`
	Streak            int    `gorm:"not null;default:0"`
	LastActive        *time.Time
	EngagementVersion uint64 `gorm:"not null;default:0"`
}

// EnsureUser 存在性检查：若邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
// 返回值表示是否新建了用户。
func EnsureUser(gdb *gorm.DB, name, email, password string) (bool, error) {
	trimmedEmail := NormalizeEmail(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return false, nil
	}

	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return false, err
		}

		displayName := strings.TrimSpace(name)
		if displayName == "" {
			displayName = trimmedEmail
		}
		return true, gdb.Create(&User{Name: displayName, Email: trimmedEmail, Password: string(hashed)}).Error
	}

	return false, nil
}

// NormalizeEmail 去除首尾空白并转为小写，账号一律按此形式存储与查找
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindUserByEmail 按规范化后的邮箱查找用户
func FindUserByEmail(gdb *gorm.DB, email string) (*User, error) {
	var user User
	if err := gdb.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
