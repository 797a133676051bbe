package main

import (
	"context"
	"log"
	"os"

	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/service"
	"kegiatan-backend/app/storage"
	"kegiatan-backend/database"
	"kegiatan-backend/routes"
	"kegiatan-backend/utils"
	ws "kegiatan-backend/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// =================================================================
	// LOAD ENV
	// =================================================================
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env tidak ditemukan, menggunakan environment default")
	}

	utils.RegisterCustomValidators()

	// =================================================================
	// INIT DB (POSTGRES + MONGODB)
	// =================================================================
	dbConn, err := database.InitDB()
	if err != nil {
		log.Fatalf("❌ Gagal koneksi database: %v", err)
	}

	// =================================================================
	// SEED DATA (JABATAN + JENIS KEGIATAN + KOMPETENSI + USERS)
	// =================================================================
	database.RunSeeders(dbConn.Postgres)

	// =================================================================
	// BLOB STORE + MAILER
	// =================================================================
	blobStore, err := storage.NewMinioStore()
	if err != nil {
		log.Fatalf("❌ Gagal inisialisasi blob store: %v", err)
	}

	mailer, err := utils.NewSendgridMailer()
	if err != nil {
		log.Fatalf("❌ Gagal inisialisasi mailer: %v", err)
	}

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(dbConn.Postgres)
	adminRepo := repository.NewUserAdminRepository(dbConn.Postgres)
	kegiatanRepo := repository.NewKegiatanRepository(dbConn.Postgres)
	penugasanRepo := repository.NewPenugasanRepository(dbConn.Postgres)
	agendaRepo := repository.NewAgendaRepository(dbConn.Postgres)
	progressRepo := repository.NewProgressRepository(dbConn.Postgres)
	attachmentRepo := repository.NewAttachmentRepository(dbConn.Postgres)
	masterRepo := repository.NewMasterRepository(dbConn.Postgres)
	resetRepo := repository.NewResetTokenRepository(dbConn.Postgres)
	outboxRepo := repository.NewOutboxRepository(dbConn.Postgres)
	chatRepo := repository.NewChatRepository(dbConn.Mongo)

	// =================================================================
	// SERVICES
	// =================================================================
	attachmentService := service.NewAttachmentService(attachmentRepo, blobStore)
	authService := service.NewAuthService(userRepo, resetRepo, mailer)
	adminService := service.NewAdminService(adminRepo, userRepo, attachmentService)
	penugasanService := service.NewPenugasanService(penugasanRepo, kegiatanRepo, chatRepo)
	kegiatanService := service.NewKegiatanService(kegiatanRepo, attachmentRepo, attachmentService)
	agendaService := service.NewAgendaService(agendaRepo, kegiatanRepo, penugasanRepo)
	progressService := service.NewProgressService(progressRepo, agendaRepo, attachmentService)
	masterService := service.NewMasterService(masterRepo)
	chatService := service.NewChatService(chatRepo, attachmentService)

	// =================================================================
	// BACKGROUND WORKERS
	// =================================================================
	// Outbox: menyalurkan intent create/delete room (ditulis dalam transaksi
	// relasional) ke MongoDB. Hub: broadcast pesan websocket per room.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxWorker := service.NewOutboxWorker(outboxRepo, chatRepo)
	go outboxWorker.Run(ctx)

	hub := ws.NewHub()
	go hub.Run()

	// =================================================================
	// ROUTER
	// =================================================================
	r := gin.Default()

	routes.NewAuthHandler(authService).SetupAuthRoutes(r)
	routes.NewAdminHandler(adminService).SetupAdminRoutes(r)
	routes.NewKegiatanHandler(kegiatanService, penugasanService).SetupKegiatanRoutes(r)
	routes.NewAgendaHandler(agendaService, progressService, penugasanService).SetupAgendaRoutes(r)
	routes.NewMasterHandler(masterService).SetupMasterRoutes(r)
	routes.NewChatHandler(chatService, hub).SetupChatRoutes(r)

	// Root endpoint (optional)
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Kegiatan API RUNNING",
			"version": "1.0.0",
		})
	})

	// =================================================================
	// START SERVER
	// =================================================================
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running at http://localhost:" + port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Gagal menjalankan server: %v", err)
	}
}
