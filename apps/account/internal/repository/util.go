package repository

import (
	"math/rand"
	"strings"
	"time"

	"SocialServer/model"

	"gorm.io/gorm"
)

// getRandomExpireTime 生成带随机抖动的过期时间
// baseExpire: 基础过期时间
// 返回: 基础过期时间 ± 10% 的随机时间
func getRandomExpireTime(baseExpire time.Duration) time.Duration {
	jitterRange := float64(baseExpire) * 0.1
	jitter := time.Duration(rand.Float64()*jitterRange*2 - jitterRange)

	return baseExpire + jitter
}

// normalizePage 兜底分页参数，返回 (pageSize, offset)
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}

// escapeLike 转义 LIKE 通配符，默认转义符为反斜杠
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// AutoMigrate 同步表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.FriendRequest{})
}
