package ids

import (
	"github.com/gin-gonic/gin"

	"readify-backend/internal/platform/apierr"
)

// Param は ULID のパスパラメータを取り出す。形式が違えば 400 を書いて false
func Param(c *gin.Context, key string) (string, bool) {
	v := c.Param(key)
	if !Valid(v) {
		apierr.BadRequest(c, "invalid "+key)
		return "", false
	}
	return v, true
}
