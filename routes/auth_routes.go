package routes

import (
	"net/http"

	"kegiatan-backend/app/service"
	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler adalah struct pengelola request untuk fitur Autentikasi.
// Struct ini menyimpan dependency ke AuthService.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler adalah constructor untuk membuat instance handler baru.
// Dipanggil di main.go nanti untuk menyambungkan Service ke Handler ini.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SetupAuthRoutes mengatur Peta URL (Routing).
// Registrasi akun TIDAK ada di sini — akun hanya dibuat admin (lihat admin_routes).
func (h *AuthHandler) SetupAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
	}
}

// Login menangani proses masuk user.
func (h *AuthHandler) Login(ctx *gin.Context) {
	// 1. Siapkan wadah input login.
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	// 2. Validasi input JSON.
	if err := ctx.ShouldBindJSON(&input); err != nil {
		resp := utils.BuildResponseFailed("Input login tidak valid", err.Error(), nil)
		ctx.JSON(http.StatusBadRequest, resp)
		return
	}

	// 3. Panggil Service Login.
	// Email tidak terdaftar dan password salah dilaporkan dengan pesan yang
	// sama persis — jangan beri tahu penyerang mana yang meleset.
	user, err := h.authService.Login(ctx.Request.Context(), input.Email, input.Password)
	if err != nil {
		resp := utils.BuildResponseFailed("Login gagal", "email atau password salah", nil)
		ctx.JSON(http.StatusUnauthorized, resp)
		return
	}

	// 4. Generate Token JWT berisi userID + role global.
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		resp := utils.BuildResponseFailed("Gagal membuat token", err.Error(), nil)
		ctx.JSON(http.StatusInternalServerError, resp)
		return
	}

	// 5. Kirim Token + Info User dasar.
	data := map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"nidn":  user.NIDN,
			"nama":  user.Nama,
			"email": user.Email,
			"role":  user.Role,
		},
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Login berhasil", data))
}

// ForgotPassword menerbitkan token reset dan mengirimkannya via email.
// Respons selalu 200 dengan pesan yang sama, terdaftar atau tidak emailnya.
func (h *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	if err := h.authService.ForgotPassword(ctx.Request.Context(), input.Email); err != nil {
		ctx.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Gagal memproses permintaan reset", err.Error(), nil))
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess(
		"Jika email terdaftar, link reset password sudah dikirim", nil))
}

// ResetPassword menukar token reset dengan password baru.
func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	if err := h.authService.ResetPassword(ctx.Request.Context(), input.Token, input.Password); err != nil {
		if err == service.ErrTokenResetTidakValid {
			ctx.JSON(http.StatusBadRequest,
				utils.BuildResponseFailed("Reset password gagal", err.Error(), nil))
			return
		}
		tulisErrorDomain(ctx, "Reset password gagal", err)
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Password berhasil diubah", nil))
}
