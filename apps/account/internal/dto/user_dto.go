package dto

import "SocialServer/model"

// ==================== 用户相关 DTO ====================

// UserItem 用户信息（对外字段）
type UserItem struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
}

// SearchUserRequest 搜索用户请求 DTO
type SearchUserRequest struct {
	Query    string `form:"q"`
	Page     string `form:"page"`
	PageSize string `form:"page_size"`
}

// ConvertUserItem model.User -> UserItem
func ConvertUserItem(u *model.User) UserItem {
	if u == nil {
		return UserItem{}
	}
	return UserItem{
		ID:        u.Id,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Mobile:    u.Mobile,
		Email:     u.Email,
	}
}

// ConvertUserItems 批量转换，保持顺序
func ConvertUserItems(users []*model.User) []UserItem {
	items := make([]UserItem, 0, len(users))
	for _, u := range users {
		items = append(items, ConvertUserItem(u))
	}
	return items
}
