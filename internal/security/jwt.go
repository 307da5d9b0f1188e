package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"records-web-server/config"
	"records-web-server/internal/util"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// Claims : идентичность запроса. Выпуск токенов — забота внешнего сервиса
// аутентификации, здесь токены только проверяются.
type Claims struct {
	AccountID int64 `json:"account_id"`
	IsAdmin   bool  `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// ValidateToken : разбор и проверка подписи access-токена
func (service *JWTService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	})
	if err != nil {
		return nil, util.LogError("ошибка проверки токена", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("токен недействителен")
	}
	return claims, nil
}

// JWTMiddleware : извлекает identity из заголовка Authorization и кладёт
// claims в context запроса
func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtService.ValidateToken(tokenStr)
			if err != nil {
				util.HandleError(w, "токен недействителен", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
