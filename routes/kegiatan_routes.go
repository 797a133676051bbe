package routes

import (
	"net/http"
	"time"

	"kegiatan-backend/app/service"
	"kegiatan-backend/middleware"
	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// KegiatanHandler menangani aggregate kegiatan: data utama, penugasan anggota,
// dan lampiran. Setiap mutasi dijaga gate PIC (kecuali role admin/manajemen).
type KegiatanHandler struct {
	kegiatanService  service.KegiatanService
	penugasanService service.PenugasanService
}

// NewKegiatanHandler membuat handler kegiatan baru.
func NewKegiatanHandler(kegiatanService service.KegiatanService, penugasanService service.PenugasanService) *KegiatanHandler {
	return &KegiatanHandler{
		kegiatanService:  kegiatanService,
		penugasanService: penugasanService,
	}
}

// SetupKegiatanRoutes mendaftarkan endpoint kegiatan. Semua wajib login.
func (h *KegiatanHandler) SetupKegiatanRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1/kegiatan")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.POST("/", h.Create)
		grp.GET("/", h.List)
		grp.GET("/:id", h.Detail)
		grp.PUT("/:id", h.Update)
		grp.DELETE("/:id", h.Delete)

		grp.GET("/:id/anggota", h.DaftarAnggota)
		grp.POST("/:id/anggota", h.AssignUsers)
		grp.DELETE("/:id/anggota/:userId", h.UnassignUser)

		grp.POST("/:id/lampiran", h.TambahLampiran)
		grp.DELETE("/:id/lampiran/:attachmentId", h.HapusLampiran)
	}
}

// pastikanBolehKelola menjalankan gate otorisasi per-kegiatan untuk caller.
// Mengembalikan false (dan sudah menulis respon) bila ditolak.
func (h *KegiatanHandler) pastikanBolehKelola(ctx *gin.Context, kegiatanID string) bool {
	err := h.penugasanService.PastikanBolehKelola(
		ctx.Request.Context(), ctx.GetString("role"), kegiatanID, ctx.GetString("userID"))
	if err != nil {
		tulisErrorDomain(ctx, "Akses ditolak", err)
		return false
	}
	return true
}

// Create membuat kegiatan baru beserta junction kompetensi dan (untuk dosen)
// baris penugasan pembuatnya — semuanya dalam satu transaksi di service.
func (h *KegiatanHandler) Create(ctx *gin.Context) {
	var input struct {
		Judul           string    `json:"judul" binding:"required"`
		JenisKegiatanID string    `json:"jenisKegiatanId" binding:"required,objectid"`
		TanggalMulai    time.Time `json:"tanggalMulai" binding:"required"`
		TanggalSelesai  time.Time `json:"tanggalSelesai" binding:"required"`
		Lokasi          string    `json:"lokasi"`
		Deskripsi       string    `json:"deskripsi"`
		KompetensiIDs   []string  `json:"kompetensiIds" binding:"omitempty,dive,objectid"`
		// JabatanID: jabatan pembuat pada kegiatan baru. Wajib bila pembuat
		// dosen dan jenis kegiatannya instansi.
		JabatanID string `json:"jabatanId" binding:"omitempty,objectid"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	kegiatan, err := h.kegiatanService.Create(ctx.Request.Context(),
		service.KegiatanInput{
			Judul:           input.Judul,
			JenisKegiatanID: input.JenisKegiatanID,
			TanggalMulai:    input.TanggalMulai,
			TanggalSelesai:  input.TanggalSelesai,
			Lokasi:          input.Lokasi,
			Deskripsi:       input.Deskripsi,
		},
		input.KompetensiIDs,
		service.Pembuat{
			UserID:    ctx.GetString("userID"),
			Role:      ctx.GetString("role"),
			JabatanID: input.JabatanID,
		},
	)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal membuat kegiatan", err)
		return
	}

	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Kegiatan berhasil dibuat", kegiatan))
}

func (h *KegiatanHandler) List(ctx *gin.Context) {
	kegiatan, err := h.kegiatanService.List(ctx.Request.Context())
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil daftar kegiatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar kegiatan", kegiatan))
}

func (h *KegiatanHandler) Detail(ctx *gin.Context) {
	kegiatan, err := h.kegiatanService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil detail kegiatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail kegiatan", kegiatan))
}

// Update mengubah sebagian field kegiatan + me-refresh junction kompetensi.
func (h *KegiatanHandler) Update(ctx *gin.Context) {
	if !h.pastikanBolehKelola(ctx, ctx.Param("id")) {
		return
	}

	var input struct {
		Judul           *string    `json:"judul"`
		JenisKegiatanID *string    `json:"jenisKegiatanId" binding:"omitempty,objectid"`
		TanggalMulai    *time.Time `json:"tanggalMulai"`
		TanggalSelesai  *time.Time `json:"tanggalSelesai"`
		Lokasi          *string    `json:"lokasi"`
		Deskripsi       *string    `json:"deskripsi"`
		IsDone          *bool      `json:"isDone"`
		KompetensiIDs   []string   `json:"kompetensiIds" binding:"omitempty,dive,objectid"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	kegiatan, err := h.kegiatanService.Update(ctx.Request.Context(), ctx.Param("id"),
		service.UpdateKegiatanInput{
			Judul:           input.Judul,
			JenisKegiatanID: input.JenisKegiatanID,
			TanggalMulai:    input.TanggalMulai,
			TanggalSelesai:  input.TanggalSelesai,
			Lokasi:          input.Lokasi,
			Deskripsi:       input.Deskripsi,
			IsDone:          input.IsDone,
		},
		input.KompetensiIDs,
	)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengubah kegiatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Kegiatan berhasil diubah", kegiatan))
}

// Delete menghapus kegiatan. Respons membawa snapshot aggregate sebelum hapus.
func (h *KegiatanHandler) Delete(ctx *gin.Context) {
	if !h.pastikanBolehKelola(ctx, ctx.Param("id")) {
		return
	}

	kegiatan, err := h.kegiatanService.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus kegiatan", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Kegiatan berhasil dihapus", kegiatan))
}

func (h *KegiatanHandler) DaftarAnggota(ctx *gin.Context) {
	anggota, err := h.penugasanService.DaftarAnggota(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil daftar anggota", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Daftar anggota kegiatan", anggota))
}

// AssignUsers meng-upsert penugasan batch. Pasangan (user, kegiatan) yang sudah
// ada hanya diganti jabatannya, tidak error.
func (h *KegiatanHandler) AssignUsers(ctx *gin.Context) {
	if !h.pastikanBolehKelola(ctx, ctx.Param("id")) {
		return
	}

	var input struct {
		Penugasan []service.PenugasanInput `json:"penugasan" binding:"required,min=1,dive"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	anggota, err := h.penugasanService.AssignUsers(ctx.Request.Context(), ctx.Param("id"), input.Penugasan)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menugaskan anggota", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Anggota berhasil ditugaskan", anggota))
}

// UnassignUser melepas satu anggota dari kegiatan.
func (h *KegiatanHandler) UnassignUser(ctx *gin.Context) {
	if !h.pastikanBolehKelola(ctx, ctx.Param("id")) {
		return
	}

	anggota, err := h.penugasanService.UnassignUser(ctx.Request.Context(), ctx.Param("id"), ctx.Param("userId"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal melepas anggota", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Anggota berhasil dilepas", anggota))
}

// TambahLampiran menerima multipart field "files" (boleh lebih dari satu).
func (h *KegiatanHandler) TambahLampiran(ctx *gin.Context) {
	if !h.pastikanBolehKelola(ctx, ctx.Param("id")) {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Minimal satu berkas pada field 'files'", "berkas kosong", nil))
		return
	}

	uploads, err := bacaFileUpload(form.File["files"])
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Gagal membaca berkas", err.Error(), nil))
		return
	}

	lampiran, err := h.kegiatanService.TambahLampiran(ctx.Request.Context(), ctx.Param("id"), uploads)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menambah lampiran", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Lampiran berhasil ditambahkan", lampiran))
}

// HapusLampiran melepas link lampiran dari kegiatan (baris attachment-nya
// tetap ada — bisa masih dipakai entitas lain).
func (h *KegiatanHandler) HapusLampiran(ctx *gin.Context) {
	if !h.pastikanBolehKelola(ctx, ctx.Param("id")) {
		return
	}

	lampiran, err := h.kegiatanService.HapusLampiran(ctx.Request.Context(), ctx.Param("id"), ctx.Param("attachmentId"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus lampiran", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Lampiran berhasil dihapus", lampiran))
}
