package routes

import (
	"net/http"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/service"
	"kegiatan-backend/middleware"
	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// MasterHandler menangani master data: jenis kegiatan, jabatan anggota,
// dan kompetensi. Daftar bisa dibaca semua user login; mutasi hanya
// admin/manajemen.
type MasterHandler struct {
	masterService service.MasterService
}

// NewMasterHandler membuat handler master data baru.
func NewMasterHandler(masterService service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// SetupMasterRoutes mendaftarkan endpoint master data.
func (h *MasterHandler) SetupMasterRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1/master")
	grp.Use(middleware.AuthMiddleware())

	kelola := middleware.RequireRole(model.RoleAdmin, model.RoleManajemen)
	{
		grp.GET("/jenis-kegiatan", h.DaftarJenisKegiatan)
		grp.POST("/jenis-kegiatan", kelola, h.BuatJenisKegiatan)
		grp.DELETE("/jenis-kegiatan/:id", kelola, h.HapusJenisKegiatan)

		grp.GET("/jabatan", h.DaftarJabatan)
		grp.POST("/jabatan", kelola, h.BuatJabatan)
		grp.DELETE("/jabatan/:id", kelola, h.HapusJabatan)

		grp.GET("/kompetensi", h.DaftarKompetensi)
		grp.POST("/kompetensi", kelola, h.BuatKompetensi)
		grp.DELETE("/kompetensi/:id", kelola, h.HapusKompetensi)
	}
}

func (h *MasterHandler) BuatJenisKegiatan(ctx *gin.Context) {
	var input struct {
		Nama       string `json:"nama" binding:"required"`
		IsInstansi bool   `json:"isInstansi"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	jenis, err := h.masterService.BuatJenisKegiatan(ctx.Request.Context(), input.Nama, input.IsInstansi)
	if err != nil {
		// Nama duplikat -> 422 lewat ConstraintViolation.
		tulisErrorDomain(ctx, "Gagal membuat jenis kegiatan", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Jenis kegiatan berhasil dibuat", jenis))
}

func (h *MasterHandler) DaftarJenisKegiatan(ctx *gin.Context) {
	daftar, err := h.masterService.DaftarJenisKegiatan(ctx.Request.Context())
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil jenis kegiatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar jenis kegiatan", daftar))
}

func (h *MasterHandler) HapusJenisKegiatan(ctx *gin.Context) {
	if err := h.masterService.HapusJenisKegiatan(ctx.Request.Context(), ctx.Param("id")); err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus jenis kegiatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Jenis kegiatan berhasil dihapus", nil))
}

func (h *MasterHandler) BuatJabatan(ctx *gin.Context) {
	var input struct {
		Nama  string `json:"nama" binding:"required"`
		IsPIC bool   `json:"isPic"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	jabatan, err := h.masterService.BuatJabatan(ctx.Request.Context(), input.Nama, input.IsPIC)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal membuat jabatan", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Jabatan berhasil dibuat", jabatan))
}

func (h *MasterHandler) DaftarJabatan(ctx *gin.Context) {
	daftar, err := h.masterService.DaftarJabatan(ctx.Request.Context())
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil jabatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar jabatan", daftar))
}

func (h *MasterHandler) HapusJabatan(ctx *gin.Context) {
	if err := h.masterService.HapusJabatan(ctx.Request.Context(), ctx.Param("id")); err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus jabatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Jabatan berhasil dihapus", nil))
}

func (h *MasterHandler) BuatKompetensi(ctx *gin.Context) {
	var input struct {
		Nama string `json:"nama" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	kompetensi, err := h.masterService.BuatKompetensi(ctx.Request.Context(), input.Nama)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal membuat kompetensi", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Kompetensi berhasil dibuat", kompetensi))
}

func (h *MasterHandler) DaftarKompetensi(ctx *gin.Context) {
	daftar, err := h.masterService.DaftarKompetensi(ctx.Request.Context())
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil kompetensi", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar kompetensi", daftar))
}

func (h *MasterHandler) HapusKompetensi(ctx *gin.Context) {
	if err := h.masterService.HapusKompetensi(ctx.Request.Context(), ctx.Param("id")); err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus kompetensi", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Kompetensi berhasil dihapus", nil))
}
