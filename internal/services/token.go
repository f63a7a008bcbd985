package services

import (
	"time"

	"github.com/google/uuid"
)

// IssueEmailCheckToken 生成不可预测的邮箱验证令牌（UUID v4，128 位随机）。
// 令牌本身无结构、不可逆，签发时间由调用方与令牌一起写入账号记录。
func IssueEmailCheckToken() (string, time.Time) {
	return uuid.NewString(), time.Now()
}
