package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Role is carried in the "role" claim of dashboard tokens.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

type Service interface {
	GenerateAccessToken(subject string, role Role) (token string, expiresAt int64, err error)
	ValidateAccessToken(tokenString string) (subject string, role Role, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(subject string, role Role) (token string, expiresAt int64, err error) {
	if role != RoleViewer && role != RoleAdmin {
		return "", 0, fmt.Errorf("unknown role %q", role)
	}
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":      subject,
		"role":     string(role),
		"is_admin": role == RoleAdmin,
		"type":     "access",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateAccessToken decodes and verifies a token outside of a request.
func (j *JWTService) ValidateAccessToken(tokenString string) (subject string, role Role, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "access" {
		return "", "", jwt.ErrInvalidJWT()
	}

	roleVal, ok := token.Get("role")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	roleStr, ok := roleVal.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	return token.Subject(), Role(roleStr), nil
}
