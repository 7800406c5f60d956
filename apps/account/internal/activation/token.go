package activation

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"SocialServer/config"
	"SocialServer/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedUID uid 段不是合法的 base64 编码 id
	ErrMalformedUID = errors.New("activation: malformed uid")
	// ErrTokenInvalid 签名错误、与用户当前状态不匹配或已过期
	ErrTokenInvalid = errors.New("activation: token invalid")
)

const purpose = "account-activation"

// claims 激活令牌载荷。State 是用户当前状态指纹，密码、邮箱或激活状态变化后旧令牌失效。
type claims struct {
	Purpose string `json:"pur"`
	State   string `json:"st"`
	jwt.RegisteredClaims
}

// Generator 签发、校验邮箱激活令牌
type Generator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGenerator 创建激活令牌生成器，有效期取自配置
func NewGenerator(cfg config.ActivationConfig) *Generator {
	return &Generator{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

// MakeToken 为用户签发激活令牌，不修改用户记录
func (g *Generator) MakeToken(user *model.User) (string, error) {
	now := g.now()
	c := claims{
		Purpose: purpose,
		State:   stateOf(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.Id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(g.secret)
}

// CheckToken 校验令牌是否属于该用户且与其当前状态一致
func (g *Generator) CheckToken(user *model.User, token string) error {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return ErrTokenInvalid
	}
	if c.Purpose != purpose || c.Subject != strconv.FormatInt(user.Id, 10) || c.State != stateOf(user) {
		return ErrTokenInvalid
	}
	return nil
}

// EncodeUID 把用户 id 编码为 URL 安全的 base64（无填充）
func EncodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeUID 解析 EncodeUID 的结果；兼容带填充的写法
func DecodeUID(s string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(trimPadding(s))
	if err != nil {
		return 0, ErrMalformedUID
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformedUID
	}
	return id, nil
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}

func stateOf(user *model.User) string {
	h := sha256.New()
	h.Write([]byte(user.Password))
	h.Write([]byte{0})
	h.Write([]byte(user.Email))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(user.IsActive)))
	return hex.EncodeToString(h.Sum(nil)[:16])
}
