package middleware

import (
	"net/http"
	"strings"
	"time"

	"nnact/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/juju/errors"
)

const (
	ctxUserIDKey = "userID"
	ctxPhoneKey  = "phone"
)

var jwtSecret []byte

// Claims 访问令牌载荷，sub 为用户 ID
type Claims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// InitJWT 设置签名密钥
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken 签发 HS256 令牌
func GenerateToken(userID, phone string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Phone: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", errors.Annotate(err, "sign token")
	}
	return token, nil
}

// ParseToken 校验签名和有效期
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.NewUnauthorized(err, "invalid token")
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.NewUnauthorized(nil, "invalid token")
	}
	return claims, nil
}

// JWTAuth 校验 Authorization: Bearer <token>
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Missing or malformed bearer token")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ctxUserIDKey, claims.Subject)
		c.Set(ctxPhoneKey, claims.Phone)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": msg,
	})
}

// GetCurrentUserID 获取当前用户 ID，未登录时返回空串
func GetCurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}
