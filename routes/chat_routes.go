package routes

import (
	"net/http"

	"kegiatan-backend/app/service"
	"kegiatan-backend/middleware"
	"kegiatan-backend/utils"
	ws "kegiatan-backend/websocket"

	"github.com/gin-gonic/gin"
)

// ChatHandler menangani sisi HTTP dari chat kegiatan: upgrade websocket,
// riwayat pesan, pesan berlampiran terbaru, dan upload lampiran chat.
// Pengiriman/edit/hapus pesan berjalan di atas websocket (lihat package
// websocket), semuanya tetap lewat ChatService yang sama.
type ChatHandler struct {
	chatService service.ChatService
	hub         *ws.Hub
}

// NewChatHandler membuat handler chat baru.
func NewChatHandler(chatService service.ChatService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{chatService: chatService, hub: hub}
}

// SetupChatRoutes mendaftarkan endpoint chat. Room id == id kegiatan.
func (h *ChatHandler) SetupChatRoutes(r *gin.Engine) {
	grp := r.Group("/api/v1/chat")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("/ws", h.ServeWS)
		grp.GET("/rooms/:roomId/messages", h.FetchHistory)
		grp.GET("/rooms/:roomId/messages/latest-attachment", h.FetchLatestWithAttachment)
		grp.POST("/attachments", h.UploadAttachments)
	}
}

// ServeWS meng-upgrade koneksi menjadi websocket. Identitas user diambil dari
// JWT; join room dilakukan lewat event "join" setelah koneksi berdiri.
func (h *ChatHandler) ServeWS(ctx *gin.Context) {
	if err := ws.ServeWS(h.hub, h.chatService, ctx.Writer, ctx.Request, ctx.GetString("userID")); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Gagal membuka koneksi websocket", err.Error(), nil))
	}
}

// FetchHistory mengembalikan seluruh pesan room, urut waktu naik.
func (h *ChatHandler) FetchHistory(ctx *gin.Context) {
	messages, err := h.chatService.FetchHistory(
		ctx.Request.Context(), ctx.Param("roomId"), ctx.GetString("userID"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil riwayat chat", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Riwayat chat", messages))
}

// FetchLatestWithAttachment mengembalikan pesan berlampiran terbaru.
// Room ada tapi tak ada pesan berlampiran -> 404 dengan pesan yang berbeda
// dari "room tidak ditemukan".
func (h *ChatHandler) FetchLatestWithAttachment(ctx *gin.Context) {
	message, err := h.chatService.FetchLatestWithAttachment(
		ctx.Request.Context(), ctx.Param("roomId"), ctx.GetString("userID"))
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengambil pesan berlampiran", err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Pesan berlampiran terbaru", message))
}

// UploadAttachments meng-ingest berkas lampiran chat (multipart field "files")
// lewat pipeline content-addressed. Hasilnya referensi lampiran yang siap
// dikirim bersama event send_message di websocket.
func (h *ChatHandler) UploadAttachments(ctx *gin.Context) {
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

	attachments, err := h.chatService.IngestAttachments(ctx.Request.Context(), uploads)
	if err != nil {
		tulisErrorDomain(ctx, "Gagal mengunggah lampiran chat", err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Lampiran chat berhasil diunggah", attachments))
}
