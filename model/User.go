package model

import "time"

// User 账号信息。
// 约束：username 唯一；email 只建普通索引，不保证唯一（检索与找回依赖它，但历史数据允许重复）。
type User struct {
	Id            int64      `gorm:"column:id;primaryKey;autoIncrement:false;comment:snowflake id"`
	Username      string     `gorm:"column:username;type:varchar(150);not null;uniqueIndex:uidx_username;comment:用户名"`
	FirstName     string     `gorm:"column:first_name;type:varchar(150);not null;default:'';comment:名"`
	LastName      string     `gorm:"column:last_name;type:varchar(150);not null;default:'';comment:姓"`
	Mobile        string     `gorm:"column:mobile;type:varchar(15);not null;default:'';comment:手机号"`
	Email         string     `gorm:"column:email;type:varchar(254);not null;default:'';index:idx_email;comment:邮箱"`
	Password      string     `gorm:"column:password;type:varchar(128);not null;comment:bcrypt 哈希"`
	IsActive      bool       `gorm:"column:is_active;not null;default:false;comment:是否激活"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false;comment:邮箱是否已验证"`
	LastLogin     *time.Time `gorm:"column:last_login;comment:最近登录时间"`
	DateJoined    time.Time  `gorm:"column:date_joined;not null;comment:注册时间"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
