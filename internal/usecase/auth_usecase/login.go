package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// token 形
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"-"`
}

// handlerがCookie/JSONにして返す
type LoginOutput struct {
	Operator string      `json:"operator"`
	Token    AccessToken `json:"token"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(subject string, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// オペレーターのログイン。アカウントは設定の1件だけ（DBには持たない）。
type LoginUsecase struct {
	operatorEmail string
	operatorHash  string
	verifier      PasswordVerifier
	issuer        AccessTokenIssuer
	clock         Clock
}

func NewLoginUsecase(
	operatorEmail string,
	operatorHash string,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		operatorEmail: strings.ToLower(strings.TrimSpace(operatorEmail)),
		operatorHash:  operatorHash,
		verifier:      verifier,
		issuer:        issuer,
		clock:         clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return out, ErrInvalidCredentials
	}

	//メールが違ってもbcryptは回す（応答時間でアカウントの有無が分からないように）
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(u.operatorEmail)) == 1
	passOK := u.verifier.Verify(in.Password, u.operatorHash)
	if !emailOK || !passOK {
		return out, ErrInvalidCredentials
	}

	//AccessToken発行
	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(u.operatorEmail, now)
	if err != nil {
		return out, err
	}

	out.Operator = u.operatorEmail
	out.Token = AccessToken{
		AccessToken: token,
		ExpiresIn:   int(exp.Sub(now).Seconds()),
		ExpiresAt:   exp,
	}
	return out, nil
}
