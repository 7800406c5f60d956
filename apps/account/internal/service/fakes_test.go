package service

import (
	"context"
	"sync"

	"SocialServer/apps/account/internal/notify"
	"SocialServer/apps/account/internal/repository"
	"SocialServer/model"
	"SocialServer/pkg/logger"

	"go.uber.org/zap"
)

var serviceLoggerOnce sync.Once

func initServiceTestLogger() {
	serviceLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

type fakeUserRepo struct {
	createFn           func(context.Context, *model.User) error
	getByIDFn          func(context.Context, int64) (*model.User, error)
	getByIDNoCacheFn   func(context.Context, int64) (*model.User, error)
	getByUsernameFn    func(context.Context, string) (*model.User, error)
	existsByUsernameFn func(context.Context, string) (bool, error)
	activateFn         func(context.Context, int64) (bool, error)
	updateLastLoginFn  func(context.Context, int64) error
	searchFn           func(context.Context, string, int, int) ([]*model.User, int64, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.getByIDFn == nil {
		return nil, nil
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByIDNoCache(ctx context.Context, id int64) (*model.User, error) {
	if f.getByIDNoCacheFn == nil {
		return nil, nil
	}
	return f.getByIDNoCacheFn(ctx, id)
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.getByUsernameFn == nil {
		return nil, nil
	}
	return f.getByUsernameFn(ctx, username)
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if f.existsByUsernameFn == nil {
		return false, nil
	}
	return f.existsByUsernameFn(ctx, username)
}

func (f *fakeUserRepo) Activate(ctx context.Context, id int64) (bool, error) {
	if f.activateFn == nil {
		return true, nil
	}
	return f.activateFn(ctx, id)
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	if f.updateLastLoginFn == nil {
		return nil
	}
	return f.updateLastLoginFn(ctx, id)
}

func (f *fakeUserRepo) Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.User, int64, error) {
	if f.searchFn == nil {
		return nil, 0, nil
	}
	return f.searchFn(ctx, keyword, page, pageSize)
}

type fakeFriendRequestRepo struct {
	createFn                func(context.Context, *model.FriendRequest) error
	existsFn                func(context.Context, int64, int64) (bool, error)
	getByPairFn             func(context.Context, int64, int64) (*model.FriendRequest, error)
	updateStatusIfPendingFn func(context.Context, int64, model.FriendRequestStatus) (bool, error)
	listFriendsFn           func(context.Context, int64) ([]*model.User, error)
	listPendingFn           func(context.Context, int64, int, int) ([]*model.FriendRequest, int64, error)
}

func (f *fakeFriendRequestRepo) Create(ctx context.Context, req *model.FriendRequest) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, req)
}

func (f *fakeFriendRequestRepo) Exists(ctx context.Context, from, to int64) (bool, error) {
	if f.existsFn == nil {
		return false, nil
	}
	return f.existsFn(ctx, from, to)
}

func (f *fakeFriendRequestRepo) GetByPair(ctx context.Context, from, to int64) (*model.FriendRequest, error) {
	if f.getByPairFn == nil {
		return nil, nil
	}
	return f.getByPairFn(ctx, from, to)
}

func (f *fakeFriendRequestRepo) UpdateStatusIfPending(ctx context.Context, id int64, status model.FriendRequestStatus) (bool, error) {
	if f.updateStatusIfPendingFn == nil {
		return true, nil
	}
	return f.updateStatusIfPendingFn(ctx, id, status)
}

func (f *fakeFriendRequestRepo) ListFriends(ctx context.Context, userID int64) ([]*model.User, error) {
	if f.listFriendsFn == nil {
		return nil, nil
	}
	return f.listFriendsFn(ctx, userID)
}

func (f *fakeFriendRequestRepo) ListPending(ctx context.Context, userID int64, page, pageSize int) ([]*model.FriendRequest, int64, error) {
	if f.listPendingFn == nil {
		return nil, 0, nil
	}
	return f.listPendingFn(ctx, userID, page, pageSize)
}

type fakeLimiter struct {
	allowFn func(context.Context, int64) (bool, error)
}

func (f *fakeLimiter) Allow(ctx context.Context, userID int64) (bool, error) {
	if f.allowFn == nil {
		return true, nil
	}
	return f.allowFn(ctx, userID)
}

type fakeMailer struct {
	sent   []notify.Message
	sendFn func(context.Context, notify.Message) error
}

func (f *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	f.sent = append(f.sent, msg)
	if f.sendFn == nil {
		return nil
	}
	return f.sendFn(ctx, msg)
}

type fakePublisher struct {
	events []notify.UserCreated
}

func (f *fakePublisher) PublishUserCreated(_ context.Context, evt notify.UserCreated) {
	f.events = append(f.events, evt)
}

// memFriendRequestRepo 内存版好友申请仓储，按已存储的申请计算好友关系
type memFriendRequestRepo struct {
	mu       sync.Mutex
	users    map[int64]*model.User
	requests []*model.FriendRequest
}

func newMemFriendRequestRepo(users ...*model.User) *memFriendRequestRepo {
	m := &memFriendRequestRepo{users: make(map[int64]*model.User, len(users))}
	for _, u := range users {
		m.users[u.Id] = u
	}
	return m
}

func (m *memFriendRequestRepo) Create(_ context.Context, req *model.FriendRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.FromUserId == req.FromUserId && r.ToUserId == req.ToUserId {
			return repository.ErrDuplicateKey
		}
	}
	stored := *req
	m.requests = append(m.requests, &stored)
	return nil
}

func (m *memFriendRequestRepo) Exists(ctx context.Context, from, to int64) (bool, error) {
	req, _ := m.GetByPair(ctx, from, to)
	return req != nil, nil
}

func (m *memFriendRequestRepo) GetByPair(_ context.Context, from, to int64) (*model.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.FromUserId == from && r.ToUserId == to {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memFriendRequestRepo) UpdateStatusIfPending(_ context.Context, id int64, status model.FriendRequestStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.Id == id && r.Status == model.FriendRequestPending {
			r.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (m *memFriendRequestRepo) ListFriends(_ context.Context, userID int64) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]struct{})
	friends := make([]*model.User, 0)
	for _, r := range m.requests {
		if r.Status != model.FriendRequestAccepted {
			continue
		}
		var other int64
		switch userID {
		case r.FromUserId:
			other = r.ToUserId
		case r.ToUserId:
			other = r.FromUserId
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		friends = append(friends, m.users[other])
	}
	return friends, nil
}

func (m *memFriendRequestRepo) ListPending(_ context.Context, userID int64, page, pageSize int) ([]*model.FriendRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*model.FriendRequest
	for _, r := range m.requests {
		if r.ToUserId == userID && r.Status == model.FriendRequestPending {
			pending = append(pending, r)
		}
	}
	total := int64(len(pending))
	start := (page - 1) * pageSize
	if start >= len(pending) {
		return []*model.FriendRequest{}, total, nil
	}
	end := min(start+pageSize, len(pending))
	return pending[start:end], total, nil
}
