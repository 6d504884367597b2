package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/access"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour // session cap
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// NewAccessToken issues the short-lived token carrying the caller identity.
func NewAccessToken(userID, roleID uint, name string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(userID), 10),
		"role_id":    float64(roleID),
		"name":       name,
		"login_time": now.Unix(),
		"iat":        now.Unix(),
		"exp":        now.Add(AccessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTSecret())
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, int(AccessTokenTTL.Seconds()), "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, int(RefreshTokenTTL.Seconds()), "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

func extractToken(c *gin.Context) (string, bool) {
	// Try cookie first, fallback to Authorization header
	if tokenString, err := c.Cookie("access_token"); err == nil && tokenString != "" {
		return tokenString, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth validates the JWT and injects the caller identity into the
// request context for the gate and the audit trail.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authorization is missing"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("invalid or expired session"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("invalid token claims"))
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("invalid token subject"))
			return
		}
		roleID, ok := claims["role_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error("role not found in token"))
			return
		}
		name, _ := claims["name"].(string)

		identity := access.Identity{UserID: uint(userID), RoleID: uint(roleID), Name: name}
		c.Set("identity", identity)
		c.Request = c.Request.WithContext(access.NewContext(c.Request.Context(), identity))

		c.Next()
	}
}

// RequirePermission checks the caller's capability for (resource, action)
// before the handler runs. It is the single choke point for authorization:
// no handler touches the record store without passing it.
func RequirePermission(gate *access.Gate, resource string, action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := access.FromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("authorization is missing"))
			return
		}

		if !gate.Can(c.Request.Context(), identity.RoleID, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error("access denied: "+resource))
			return
		}

		c.Next()
	}
}
