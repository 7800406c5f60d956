package service

import (
	"context"
	"errors"
	"html/template"
	"time"

	"SocialServer/apps/account/internal/activation"
	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/form"
	"SocialServer/apps/account/internal/notify"
	"SocialServer/apps/account/internal/repository"
	"SocialServer/config"
	"SocialServer/model"
	"SocialServer/pkg/idgen"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/metrics"
	"SocialServer/pkg/util"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash 用户不存在时也做一次 bcrypt 比较，避免通过耗时区分用户名是否存在
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("social-server-dummy"), bcrypt.DefaultCost)

// accountServiceImpl 账号服务实现
type accountServiceImpl struct {
	userRepo  repository.IUserRepository
	tokens    *activation.Generator
	issuer    *util.TokenIssuer
	mailer    notify.Mailer
	tmpl      *template.Template
	publisher notify.Publisher
	site      config.ActivationConfig
	now       func() time.Time
}

// NewAccountService 创建账号服务实例
func NewAccountService(
	userRepo repository.IUserRepository,
	tokens *activation.Generator,
	issuer *util.TokenIssuer,
	mailer notify.Mailer,
	tmpl *template.Template,
	publisher notify.Publisher,
	site config.ActivationConfig,
) AccountService {
	return &accountServiceImpl{
		userRepo:  userRepo,
		tokens:    tokens,
		issuer:    issuer,
		mailer:    mailer,
		tmpl:      tmpl,
		publisher: publisher,
		site:      site,
		now:       time.Now,
	}
}

// Signup 用户注册
// 业务流程：
//  1. 用户名查重
//  2. 哈希密码，创建未激活用户
//  3. 发布 UserCreated（欢迎邮件、Kafka）
//  4. 同步发送激活邮件，失败只记录日志，用户保留
//
// 错误：
//   - ErrUsernameTaken: 用户名已存在（含并发插入冲突）
//   - ErrInternal: 系统内部错误
func (s *accountServiceImpl) Signup(ctx context.Context, f *form.SignupForm) (*SignupResult, error) {
	// 1. 用户名查重
	exists, err := s.userRepo.ExistsByUsername(ctx, f.Username)
	if err != nil {
		logger.Error(ctx, "查询用户名失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	// 2. 创建用户
	hashed, err := bcrypt.GenerateFromPassword([]byte(f.Password1), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(ctx, "生成密码哈希失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	now := s.now()
	user := &model.User{
		Id:         idgen.NextID(),
		Username:   f.Username,
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Mobile:     f.Mobile,
		Email:      f.Email,
		Password:   string(hashed),
		IsActive:   false,
		DateJoined: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		logger.Error(ctx, "创建用户失败", logger.ErrorField("error", err))
		metrics.RecordAccountEvent("signup", "error")
		return nil, ErrInternal
	}
	metrics.RecordAccountEvent("signup", "ok")
	logger.Info(ctx, "用户注册成功",
		logger.Int64("user_id", user.Id),
		logger.String("username", user.Username),
	)

	// 3. 发布 UserCreated
	if s.publisher != nil {
		s.publisher.PublishUserCreated(ctx, notify.UserCreated{
			UserID:    user.Id,
			Username:  user.Username,
			FirstName: user.FirstName,
			Email:     user.Email,
			CreatedAt: now,
		})
	}

	// 4. 激活邮件
	result := &SignupResult{User: user}
	if err := s.sendActivationEmail(ctx, user); err != nil {
		logger.Error(ctx, "激活邮件发送失败",
			logger.Int64("user_id", user.Id),
			logger.ErrorField("error", err),
		)
		return result, nil
	}
	result.MailSent = true
	return result, nil
}

func (s *accountServiceImpl) sendActivationEmail(ctx context.Context, user *model.User) error {
	token, err := s.tokens.MakeToken(user)
	if err != nil {
		return err
	}
	msg, err := notify.RenderActivationEmail(s.tmpl, notify.ActivationEmail{
		User:     user,
		Domain:   s.site.Domain,
		Protocol: s.site.Scheme,
		UID:      activation.EncodeUID(user.Id),
		Token:    token,
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

// Activate 邮箱激活
// 错误：
//   - ErrUserNotFound: uid 非法或用户不存在
//   - ErrInvalidToken: 令牌与用户当前状态不匹配或已过期
func (s *accountServiceImpl) Activate(ctx context.Context, uidB64, token string) (*model.User, error) {
	// 1. 解析 uid
	id, err := activation.DecodeUID(uidB64)
	if err != nil {
		metrics.RecordAccountEvent("activate", "not_found")
		return nil, ErrUserNotFound
	}

	// 2. 查询用户，令牌依赖激活状态，必须读库
	user, err := s.userRepo.GetByIDNoCache(ctx, id)
	if err != nil {
		logger.Error(ctx, "查询用户失败", logger.Int64("user_id", id), logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if user == nil {
		metrics.RecordAccountEvent("activate", "not_found")
		return nil, ErrUserNotFound
	}

	// 3. 校验令牌（已激活用户的旧令牌在这里失效）
	if err := s.tokens.CheckToken(user, token); err != nil {
		metrics.RecordAccountEvent("activate", "invalid_token")
		return nil, ErrInvalidToken
	}

	// 4. 激活
	if _, err := s.userRepo.Activate(ctx, user.Id); err != nil {
		logger.Error(ctx, "激活用户失败", logger.Int64("user_id", user.Id), logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	user.IsActive = true
	user.EmailVerified = true

	metrics.RecordAccountEvent("activate", "ok")
	logger.Info(ctx, "用户激活成功", logger.Int64("user_id", user.Id))
	return user, nil
}

// Authenticate 校验用户名密码
// 错误：
//   - ErrInvalidCredentials: 用户不存在或密码错误
//   - ErrInactiveUser: 账号未激活
func (s *accountServiceImpl) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	// 1. 查询用户
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		logger.Error(ctx, "查询用户失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.RecordAccountEvent("login", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	// 2. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		metrics.RecordAccountEvent("login", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	// 3. 校验激活状态
	if !user.IsActive {
		metrics.RecordAccountEvent("login", "inactive")
		return nil, ErrInactiveUser
	}

	// 4. 更新最后登录时间，失败不影响登录
	if err := s.userRepo.UpdateLastLogin(ctx, user.Id); err != nil {
		logger.Warn(ctx, "更新最后登录时间失败", logger.Int64("user_id", user.Id), logger.ErrorField("error", err))
	}

	metrics.RecordAccountEvent("login", "ok")
	return user, nil
}

// IssueToken token-auth
func (s *accountServiceImpl) IssueToken(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Generate(user.Id, user.Email)
	if err != nil {
		logger.Error(ctx, "签发访问令牌失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	return &dto.TokenResponse{Token: token, UserID: user.Id, Email: user.Email}, nil
}

// SessionToken 签发会话令牌
func (s *accountServiceImpl) SessionToken(user *model.User) (string, error) {
	return s.issuer.Generate(user.Id, user.Email)
}

// CurrentUser 读取当前用户
func (s *accountServiceImpl) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "查询用户失败", logger.Int64("user_id", userID), logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
