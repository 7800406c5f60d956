package dto

import (
	"time"

	"SocialServer/model"
)

// ==================== 好友申请相关 DTO ====================

// FriendRequestItem 好友申请信息
type FriendRequestItem struct {
	ID        int64     `json:"id"`
	FromUser  UserItem  `json:"from_user"`
	ToUser    UserItem  `json:"to_user"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ListPendingRequest 待处理申请分页参数
type ListPendingRequest struct {
	Page     string `form:"page"`
	PageSize string `form:"page_size"`
}

// ConvertFriendRequestItem model.FriendRequest -> FriendRequestItem
func ConvertFriendRequestItem(r *model.FriendRequest) FriendRequestItem {
	return FriendRequestItem{
		ID:        r.Id,
		FromUser:  ConvertUserItem(r.FromUser),
		ToUser:    ConvertUserItem(r.ToUser),
		Status:    string(r.Status),
		Timestamp: r.Timestamp,
	}
}

// ConvertFriendRequestItems 批量转换
func ConvertFriendRequestItems(reqs []*model.FriendRequest) []FriendRequestItem {
	items := make([]FriendRequestItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, ConvertFriendRequestItem(r))
	}
	return items
}
