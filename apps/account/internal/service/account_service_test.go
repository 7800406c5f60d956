package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"SocialServer/apps/account/internal/activation"
	"SocialServer/apps/account/internal/form"
	"SocialServer/apps/account/internal/notify"
	"SocialServer/apps/account/internal/repository"
	"SocialServer/config"
	"SocialServer/model"
	"SocialServer/pkg/util"
	"SocialServer/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testActivationConfig = config.ActivationConfig{
	Secret:   "test-activation-secret",
	TokenTTL: time.Hour,
	Domain:   "example.com",
	Scheme:   "https",
}

type accountFixture struct {
	svc       AccountService
	users     *fakeUserRepo
	mailer    *fakeMailer
	publisher *fakePublisher
	tokens    *activation.Generator
	issuer    *util.TokenIssuer
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	initServiceTestLogger()

	tmpl, err := web.Templates()
	require.NoError(t, err)

	f := &accountFixture{
		users:     &fakeUserRepo{},
		mailer:    &fakeMailer{},
		publisher: &fakePublisher{},
		tokens:    activation.NewGenerator(testActivationConfig),
		issuer: util.NewTokenIssuer(config.JWTConfig{
			Secret: "test-jwt-secret", Issuer: "test", TTL: time.Hour,
		}),
	}
	f.svc = NewAccountService(f.users, f.tokens, f.issuer, f.mailer, tmpl, f.publisher, testActivationConfig)
	return f
}

func signupForm() *form.SignupForm {
	return &form.SignupForm{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Mobile:    "555-0100",
		Email:     "alice@example.com",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	}
}

func hashedUser(t *testing.T, id int64, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		Id:        id,
		Username:  "alice",
		FirstName: "Alice",
		Email:     "alice@example.com",
		Password:  string(hash),
		IsActive:  active,
	}
}

func TestSignupCreatesInactiveUserAndSendsActivation(t *testing.T) {
	f := newAccountFixture(t)
	var created *model.User
	f.users.createFn = func(_ context.Context, u *model.User) error {
		created = u
		return nil
	}

	result, err := f.svc.Signup(context.Background(), signupForm())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.True(t, result.MailSent)
	assert.False(t, created.IsActive)
	assert.False(t, created.EmailVerified)
	assert.NotZero(t, created.Id)
	assert.NotEqual(t, "s3cret-pass", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))

	// UserCreated 事件
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, created.Id, f.publisher.events[0].UserID)
	assert.Equal(t, "Alice", f.publisher.events[0].FirstName)

	// 激活邮件
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "Activate Your Account", msg.Subject)
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Contains(t, msg.Body, "https://example.com/activate/"+activation.EncodeUID(created.Id)+"/")
}

func TestSignupUsernameTaken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeUserRepo)
	}{
		{name: "precheck", setup: func(r *fakeUserRepo) {
			r.existsByUsernameFn = func(context.Context, string) (bool, error) { return true, nil }
		}},
		{name: "concurrent insert", setup: func(r *fakeUserRepo) {
			r.createFn = func(context.Context, *model.User) error { return repository.ErrDuplicateKey }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture(t)
			tt.setup(f.users)

			_, err := f.svc.Signup(context.Background(), signupForm())
			assert.ErrorIs(t, err, ErrUsernameTaken)
			assert.Empty(t, f.publisher.events)
			assert.Empty(t, f.mailer.sent)
		})
	}
}

func TestSignupKeepsUserWhenMailFails(t *testing.T) {
	f := newAccountFixture(t)
	f.mailer.sendFn = func(context.Context, notify.Message) error { return errors.New("smtp down") }

	result, err := f.svc.Signup(context.Background(), signupForm())
	require.NoError(t, err)
	assert.False(t, result.MailSent)
	assert.NotNil(t, result.User)
}

func TestActivate(t *testing.T) {
	f := newAccountFixture(t)
	user := hashedUser(t, 42, "pw", false)
	f.users.getByIDNoCacheFn = func(_ context.Context, id int64) (*model.User, error) {
		if id == user.Id {
			cp := *user
			return &cp, nil
		}
		return nil, nil
	}
	var activated int64
	f.users.activateFn = func(_ context.Context, id int64) (bool, error) {
		activated = id
		user.IsActive = true
		user.EmailVerified = true
		return true, nil
	}

	token, err := f.tokens.MakeToken(user)
	require.NoError(t, err)
	uid := activation.EncodeUID(user.Id)

	got, err := f.svc.Activate(context.Background(), uid, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), activated)
	assert.True(t, got.IsActive)
	assert.True(t, got.EmailVerified)

	// 同一链接第二次使用失效
	_, err = f.svc.Activate(context.Background(), uid, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActivateFailures(t *testing.T) {
	f := newAccountFixture(t)
	user := hashedUser(t, 42, "pw", false)
	f.users.getByIDNoCacheFn = func(_ context.Context, id int64) (*model.User, error) {
		if id == user.Id {
			return user, nil
		}
		return nil, nil
	}
	token, err := f.tokens.MakeToken(user)
	require.NoError(t, err)

	tests := []struct {
		name    string
		uid     string
		token   string
		wantErr error
	}{
		{name: "malformed uid", uid: "!!!", token: token, wantErr: ErrUserNotFound},
		{name: "unknown user", uid: activation.EncodeUID(7), token: token, wantErr: ErrUserNotFound},
		{name: "garbage token", uid: activation.EncodeUID(42), token: "not-a-token", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Activate(context.Background(), tt.uid, tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestActivateIgnoresStaleCache(t *testing.T) {
	f := newAccountFixture(t)
	user := hashedUser(t, 42, "pw", false)
	stale := *user
	// 缓存里一直是激活前的快照
	f.users.getByIDFn = func(context.Context, int64) (*model.User, error) {
		cp := stale
		return &cp, nil
	}
	f.users.getByIDNoCacheFn = func(context.Context, int64) (*model.User, error) {
		cp := *user
		return &cp, nil
	}
	activations := 0
	f.users.activateFn = func(context.Context, int64) (bool, error) {
		activations++
		user.IsActive = true
		user.EmailVerified = true
		return true, nil
	}

	token, err := f.tokens.MakeToken(user)
	require.NoError(t, err)
	uid := activation.EncodeUID(user.Id)

	_, err = f.svc.Activate(context.Background(), uid, token)
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), uid, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 1, activations)
}

func TestAuthenticate(t *testing.T) {
	active := hashedUser(t, 1, "right", true)
	inactive := hashedUser(t, 2, "right", false)
	inactive.Username = "bob"

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "alice", password: "right"},
		{name: "wrong password", username: "alice", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "nobody", password: "right", wantErr: ErrInvalidCredentials},
		{name: "inactive user", username: "bob", password: "right", wantErr: ErrInactiveUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture(t)
			f.users.getByUsernameFn = func(_ context.Context, username string) (*model.User, error) {
				switch username {
				case "alice":
					return active, nil
				case "bob":
					return inactive, nil
				}
				return nil, nil
			}
			loginUpdated := false
			f.users.updateLastLoginFn = func(context.Context, int64) error {
				loginUpdated = true
				return nil
			}

			user, err := f.svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, loginUpdated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), user.Id)
			assert.True(t, loginUpdated)
		})
	}
}

func TestIssueToken(t *testing.T) {
	f := newAccountFixture(t)
	user := hashedUser(t, 9, "pw", true)
	f.users.getByUsernameFn = func(context.Context, string) (*model.User, error) { return user, nil }

	resp, err := f.svc.IssueToken(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.UserID)
	assert.Equal(t, "alice@example.com", resp.Email)

	claims, err := f.issuer.Parse(resp.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestCurrentUser(t *testing.T) {
	f := newAccountFixture(t)
	_, err := f.svc.CurrentUser(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)

	f.users.getByIDFn = func(context.Context, int64) (*model.User, error) { return nil, errors.New("db down") }
	_, err = f.svc.CurrentUser(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInternal)
}
