package model

import "time"

// FriendRequestStatus 好友申请状态
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// Label 页面展示用的状态名
func (s FriendRequestStatus) Label() string {
	switch s {
	case FriendRequestPending:
		return "Pending"
	case FriendRequestAccepted:
		return "Accepted"
	case FriendRequestRejected:
		return "Rejected"
	}
	return string(s)
}

// IsTerminal 是否已处理（accepted/rejected 之后不再流转）
func (s FriendRequestStatus) IsTerminal() bool {
	return s == FriendRequestAccepted || s == FriendRequestRejected
}

// FriendRequest 有向好友申请 from -> to。
// 约束：uniqueIndex:uidx_from_to 保证同一有序对只有一条记录；删除用户时级联删除。
type FriendRequest struct {
	Id         int64               `gorm:"column:id;primaryKey;autoIncrement:false;comment:snowflake id"`
	FromUserId int64               `gorm:"column:from_user_id;not null;uniqueIndex:uidx_from_to;comment:申请人"`
	ToUserId   int64               `gorm:"column:to_user_id;not null;uniqueIndex:uidx_from_to;index:idx_to_status;comment:目标用户"`
	Status     FriendRequestStatus `gorm:"column:status;type:varchar(16);not null;default:'pending';index:idx_to_status;comment:pending/accepted/rejected"`
	Timestamp  time.Time           `gorm:"column:timestamp;not null;comment:创建时间，只写一次"`

	FromUser *User `gorm:"foreignKey:FromUserId;references:Id;constraint:OnDelete:CASCADE"`
	ToUser   *User `gorm:"foreignKey:ToUserId;references:Id;constraint:OnDelete:CASCADE"`
}

func (FriendRequest) TableName() string { return "friend_requests" }
