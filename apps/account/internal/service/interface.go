package service

import (
	"context"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/form"
	"SocialServer/model"
)

// SignupResult 注册结果
type SignupResult struct {
	User     *model.User
	MailSent bool // 激活邮件是否发送成功
}

// AccountService 账号服务接口
// 职责：
//   - 注册、邮箱激活
//   - 网页登录与 token-auth 的凭据校验
//   - 签发会话/访问令牌
type AccountService interface {
	// Signup 创建未激活用户，发布 UserCreated 并同步发送激活邮件
	Signup(ctx context.Context, f *form.SignupForm) (*SignupResult, error)

	// Activate 校验激活链接并激活用户
	Activate(ctx context.Context, uidB64, token string) (*model.User, error)

	// Authenticate 校验用户名密码，未激活用户不能登录
	Authenticate(ctx context.Context, username, password string) (*model.User, error)

	// IssueToken token-auth：校验凭据并签发访问令牌
	IssueToken(ctx context.Context, username, password string) (*dto.TokenResponse, error)

	// SessionToken 为已认证用户签发会话令牌（写入 cookie）
	SessionToken(user *model.User) (string, error)

	// CurrentUser 按 id 读取当前用户
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

// FriendService 好友申请服务接口
type FriendService interface {
	// Send 发送好友申请
	Send(ctx context.Context, fromUserID, toUserID int64) (*model.FriendRequest, error)

	// Respond 处理 fromUserID 发给 responderID 的申请，action 为 accept / reject
	Respond(ctx context.Context, responderID, fromUserID int64, action string) (*model.FriendRequest, error)

	// ListFriends 好友列表
	ListFriends(ctx context.Context, userID int64) ([]*model.User, error)

	// ListPending 待处理申请分页
	ListPending(ctx context.Context, userID int64, q dto.PageQuery) ([]*model.FriendRequest, int64, error)
}

// UserService 用户检索服务接口
type UserService interface {
	// Search 按 email / 姓名检索用户
	Search(ctx context.Context, query string, q dto.PageQuery) ([]*model.User, int64, error)
}
