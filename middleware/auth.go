package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"studiofit/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// JWTAuthMemberMiddleware authenticates members by bearer token. Validated
// token hashes are cached in the dedicated auth Redis DB so repeated
// requests skip signature verification of the same token.
func JWTAuthMemberMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		computedHash := utils.HashToken(tokenString)
		authCache := utils.GetAuthCacheClient()

		// Fast path: a previously validated token.
		cachedID, err := authCache.Get(ctx, utils.AuthCachePrefix+computedHash).Result()
		if err == nil && cachedID != "" {
			_ = authCache.Expire(ctx, utils.AuthCachePrefix+computedHash, utils.AuthCacheTTL).Err()
			c.Set("memberID", cachedID)
			c.Next()
			return
		}
		if err != nil && err != redis.Nil {
			log.Printf("WARNING: auth cache lookup failed: %v. Falling back to token validation.", err)
		}

		memberID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || memberID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		if err := authCache.Set(ctx, utils.AuthCachePrefix+computedHash, memberID, utils.AuthCacheTTL).Err(); err != nil {
			log.Printf("WARNING: failed to cache auth token: %v", err)
		}

		c.Set("memberID", memberID)
		c.Next()
	}
}

// CoachOnlyMiddleware restricts an endpoint to coach tokens. Coach ids are
// carried in a dedicated claim-backed header set by the gateway; absence
// means a member token.
func CoachOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader("X-Studio-Role")
		if role != "coach" && role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Coach access required",
				"code":  0,
			})
			return
		}
		c.Next()
	}
}
