package routes

import (
	"mime/multipart"
	"net/http"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/service"
	"kegiatan-backend/middleware"
	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler menangani manajemen akun user oleh admin.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler membuat handler admin baru.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// SetupAdminRoutes mendaftarkan endpoint manajemen user.
// Seluruh endpoint hanya untuk role admin.
func (h *AdminHandler) SetupAdminRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1/users")
	grp.Use(middleware.AuthMiddleware(), middleware.RequireRole(model.RoleAdmin))
	{
		grp.POST("/", h.CreateUser)
		grp.GET("/", h.GetAllUsers)
		grp.GET("/:id", h.GetUserDetail)
		grp.PUT("/:id", h.UpdateUser)
		grp.DELETE("/:id", h.DeleteUser)
		grp.PUT("/:id/kompetensi", h.SetKompetensi)
		grp.POST("/:id/foto-profil", h.UploadFotoProfil)
	}
}

// CreateUser membuat akun baru (password di-hash di service).
func (h *AdminHandler) CreateUser(ctx *gin.Context) {
	var input struct {
		NIDN     string `json:"nidn" binding:"required"`
		Nama     string `json:"nama" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Role     string `json:"role" binding:"required,oneof=admin manajemen dosen"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	user, err := h.adminService.CreateUser(ctx.Request.Context(), service.BuatUserInput{
		NIDN:     input.NIDN,
		Nama:     input.Nama,
		Email:    input.Email,
		Role:     input.Role,
		Password: input.Password,
	})
	if err != nil {
		// Duplikat NIDN/email naik sebagai ConstraintViolation -> 422.
		tulisErrorDomain(ctx, "Gagal membuat user", err)
		return
	}

	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("User berhasil dibuat", user))
}

func (h *AdminHandler) GetAllUsers(ctx *gin.Context) {
	users, err := h.adminService.GetAllUsers(ctx.Request.Context())
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil daftar user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar user", users))
}

func (h *AdminHandler) GetUserDetail(ctx *gin.Context) {
	user, err := h.adminService.GetUserDetail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil detail user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail user", user))
}

// UpdateUser: field yang tidak dikirim tidak diubah (partial update).
func (h *AdminHandler) UpdateUser(ctx *gin.Context) {
	var input struct {
		Nama  *string `json:"nama"`
		Email *string `json:"email" binding:"omitempty,email"`
		Role  *string `json:"role" binding:"omitempty,oneof=admin manajemen dosen"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	user, err := h.adminService.UpdateUser(ctx.Request.Context(), ctx.Param("id"), service.UpdateUserInput{
		Nama:  input.Nama,
		Email: input.Email,
		Role:  input.Role,
	})
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengubah user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil diubah", user))
}

// DeleteUser men-soft-delete user. Snapshot user sebelum hapus dikembalikan.
func (h *AdminHandler) DeleteUser(ctx *gin.Context) {
	user, err := h.adminService.DeleteUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil dihapus", user))
}

// SetKompetensi mengganti seluruh kompetensi user dengan daftar yang dikirim.
func (h *AdminHandler) SetKompetensi(ctx *gin.Context) {
	var input struct {
		KompetensiIDs []string `json:"kompetensiIds" binding:"required,dive,objectid"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	user, err := h.adminService.SetKompetensi(ctx.Request.Context(), ctx.Param("id"), input.KompetensiIDs)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengubah kompetensi user", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Kompetensi user berhasil diubah", user))
}

// UploadFotoProfil menerima satu berkas multipart field "foto".
func (h *AdminHandler) UploadFotoProfil(ctx *gin.Context) {
	fh, err := ctx.FormFile("foto")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Berkas foto wajib diisi", err.Error(), nil))
		return
	}

	uploads, err := bacaFileUpload([]*multipart.FileHeader{fh})
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Gagal membaca berkas", err.Error(), nil))
		return
	}

	user, err := h.adminService.UploadFotoProfil(ctx.Request.Context(), ctx.Param("id"), uploads[0])
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengunggah foto profil", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Foto profil berhasil diubah", user))
}
