package routes

import (
	"net/http"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/service"
	"kegiatan-backend/middleware"
	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// AgendaHandler menangani agenda kegiatan beserta catatan progress-nya.
//
// Kebijakan akses:
//   - mutasi agenda (create/update/delete/anggota) -> gate PIC kegiatan induk
//   - menambah progress -> cukup anggota kegiatan induk (kontribusi),
//     tidak harus PIC
type AgendaHandler struct {
	agendaService    service.AgendaService
	progressService  service.ProgressService
	penugasanService service.PenugasanService
}

// NewAgendaHandler membuat handler agenda baru.
func NewAgendaHandler(
	agendaService service.AgendaService,
	progressService service.ProgressService,
	penugasanService service.PenugasanService,
) *AgendaHandler {
	return &AgendaHandler{
		agendaService:    agendaService,
		progressService:  progressService,
		penugasanService: penugasanService,
	}
}

// SetupAgendaRoutes mendaftarkan endpoint agenda + progress. Semua wajib login.
func (h *AgendaHandler) SetupAgendaRoutes(r *gin.Engine) {
	agenda := r.Group("/api/v1/agenda")
	agenda.Use(middleware.AuthMiddleware())
	{
		agenda.POST("/", h.Create)
		agenda.GET("/:id", h.Detail)
		agenda.PUT("/:id", h.Update)
		agenda.DELETE("/:id", h.Delete)
		agenda.PUT("/:id/anggota", h.SetAnggota)
		agenda.POST("/:id/progress", h.CreateProgress)
	}

	progress := r.Group("/api/v1/progress")
	progress.Use(middleware.AuthMiddleware())
	{
		progress.GET("/:id", h.ProgressDetail)
		progress.DELETE("/:id", h.DeleteProgress)
		progress.POST("/:id/lampiran", h.TambahLampiranProgress)
	}
}

// gateKelola menjalankan gate PIC pada kegiatan induk.
func (h *AgendaHandler) gateKelola(ctx *gin.Context, kegiatanID string) bool {
	err := h.penugasanService.PastikanBolehKelola(
		ctx.Request.Context(), ctx.GetString("role"), kegiatanID, ctx.GetString("userID"))
	if err != nil {
		tulisErrorDomain(ctx, "Akses ditolak", err)
		return false
	}
	return true
}

// gateKontribusi cukup memastikan caller anggota kegiatan (jabatan apa pun).
// Admin/manajemen tetap bypass.
func (h *AgendaHandler) gateKontribusi(ctx *gin.Context, kegiatanID string) bool {
	role := ctx.GetString("role")
	if role == model.RoleAdmin || role == model.RoleManajemen {
		return true
	}
	if _, err := h.penugasanService.RoleOf(ctx.Request.Context(), kegiatanID, ctx.GetString("userID")); err != nil {
		tulisErrorDomain(ctx, "Akses ditolak", err)
		return false
	}
	return true
}

// Create membuat agenda baru di bawah satu kegiatan.
func (h *AgendaHandler) Create(ctx *gin.Context) {
	var input struct {
		KegiatanID string    `json:"kegiatanId" binding:"required,objectid"`
		Jadwal     time.Time `json:"jadwal" binding:"required"`
		Nama       string    `json:"nama" binding:"required"`
		Deskripsi  string    `json:"deskripsi"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	if !h.gateKelola(ctx, input.KegiatanID) {
		return
	}

	agenda, err := h.agendaService.Create(ctx.Request.Context(), service.AgendaInput{
		KegiatanID: input.KegiatanID,
		Jadwal:     input.Jadwal,
		Nama:       input.Nama,
		Deskripsi:  input.Deskripsi,
	})
	if err != nil {
		tulisErrorDomain(ctx, "Gagal membuat agenda", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Agenda berhasil dibuat", agenda))
}

func (h *AgendaHandler) Detail(ctx *gin.Context) {
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil detail agenda", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail agenda", agenda))
}

// Update mengubah sebagian field agenda. Gate diambil dari kegiatan induk
// agenda yang TERSIMPAN, bukan dari body request.
func (h *AgendaHandler) Update(ctx *gin.Context) {
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil agenda", err)
		return
	}
	if !h.gateKelola(ctx, agenda.KegiatanID) {
		return
	}

	var input struct {
		Jadwal    *time.Time `json:"jadwal"`
		Nama      *string    `json:"nama"`
		Deskripsi *string    `json:"deskripsi"`
		IsDone    *bool      `json:"isDone"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	hasil, err := h.agendaService.Update(ctx.Request.Context(), ctx.Param("id"), service.UpdateAgendaInput{
		Jadwal:    input.Jadwal,
		Nama:      input.Nama,
		Deskripsi: input.Deskripsi,
		IsDone:    input.IsDone,
	})
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengubah agenda", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Agenda berhasil diubah", hasil))
}

// Delete menghapus agenda. Respons membawa snapshot sebelum hapus.
func (h *AgendaHandler) Delete(ctx *gin.Context) {
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil agenda", err)
		return
	}
	if !h.gateKelola(ctx, agenda.KegiatanID) {
		return
	}

	hasil, err := h.agendaService.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus agenda", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Agenda berhasil dihapus", hasil))
}

// SetAnggota mengganti keanggotaan agenda. Setiap user wajib sudah anggota
// kegiatan induk; yang bukan ditolak 400.
func (h *AgendaHandler) SetAnggota(ctx *gin.Context) {
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil agenda", err)
		return
	}
	if !h.gateKelola(ctx, agenda.KegiatanID) {
		return
	}

	var input struct {
		UserIDs []string `json:"userIds" binding:"required,dive,objectid"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error(), nil))
		return
	}

	hasil, err := h.agendaService.SetAnggota(ctx.Request.Context(), ctx.Param("id"), input.UserIDs)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengubah anggota agenda", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Anggota agenda berhasil diubah", hasil))
}

// CreateProgress menambah catatan progress pada agenda. Multipart:
// field "deskripsi" (teks) + field "files" (berkas, opsional).
func (h *AgendaHandler) CreateProgress(ctx *gin.Context) {
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil agenda", err)
		return
	}
	if !h.gateKontribusi(ctx, agenda.KegiatanID) {
		return
	}

	deskripsi := ctx.PostForm("deskripsi")
	if deskripsi == "" {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Deskripsi progress wajib diisi", "deskripsi kosong", nil))
		return
	}

	var uploads []service.FileUpload
	if form, err := ctx.MultipartForm(); err == nil {
		uploads, err = bacaFileUpload(form.File["files"])
		if err != nil {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Gagal membaca berkas", err.Error(), nil))
			return
		}
	}

	progress, err := h.progressService.Create(ctx.Request.Context(), ctx.Param("id"), deskripsi, uploads)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal membuat progress", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Progress berhasil dibuat", progress))
}

func (h *AgendaHandler) ProgressDetail(ctx *gin.Context) {
	progress, err := h.progressService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil detail progress", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Detail progress", progress))
}

// DeleteProgress menghapus progress. Gate PIC kegiatan induk (lewat agenda).
func (h *AgendaHandler) DeleteProgress(ctx *gin.Context) {
	progress, err := h.progressService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil progress", err)
		return
	}
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), progress.AgendaID)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil agenda induk", err)
		return
	}
	if !h.gateKelola(ctx, agenda.KegiatanID) {
		return
	}

	hasil, err := h.progressService.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menghapus progress", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Progress berhasil dihapus", hasil))
}

// TambahLampiranProgress menambah berkas ke progress yang sudah ada.
// Multipart field "files". Cukup anggota kegiatan induk.
func (h *AgendaHandler) TambahLampiranProgress(ctx *gin.Context) {
	progress, err := h.progressService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil progress", err)
		return
	}
	agenda, err := h.agendaService.Detail(ctx.Request.Context(), progress.AgendaID)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil agenda induk", err)
		return
	}
	if !h.gateKontribusi(ctx, agenda.KegiatanID) {
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

	hasil, err := h.progressService.TambahLampiran(ctx.Request.Context(), ctx.Param("id"), uploads)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal menambah lampiran progress", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Lampiran progress berhasil ditambahkan", hasil))
}
