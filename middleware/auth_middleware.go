package middleware

import (
	"net/http"
	"strings"

	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware memvalidasi JWT dari header Authorization (Bearer token)
// dan menyimpan informasi user (userID, role) ke dalam context.
// Kedudukan per-kegiatan (anggota / PIC) TIDAK dicek di sini — itu tugas
// PenugasanService karena bisa berubah selama token masih hidup.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ambil header Authorization
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authorization token required", "missing_or_invalid_authorization_header", nil))
			c.Abort()
			return
		}

		// Ambil token string dan trim spasi sisa
		tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authorization token required", "empty_token", nil))
			c.Abort()
			return
		}

		// Validasi token menggunakan utils (JWT parsing & verifikasi signature/expired)
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Invalid or expired token", err.Error(), nil))
			c.Abort()
			return
		}

		// Inject nilai-nilai penting ke context untuk dipakai di handler/service
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		// lanjut ke handler berikutnya
		c.Next()
	}
}

// RequireRole membatasi endpoint hanya untuk role tertentu (mis. admin).
// Harus dipasang SETELAH AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden,
			utils.BuildResponseFailed("Akses ditolak", "insufficient_role", nil))
		c.Abort()
	}
}
