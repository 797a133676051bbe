package database

import (
	"log"

	"kegiatan-backend/app/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders menjalankan seluruh seeder yang dibutuhkan.
// Panggil ini sekali di main.go setelah InitDB berhasil.
func RunSeeders(db *gorm.DB) {
	SeedJabatan(db)
	SeedJenisKegiatan(db)
	SeedKompetensi(db)
	SeedUsers(db)
}

// ===============================
//  SEED JABATAN ANGGOTA
// ===============================

// SeedJabatan menambahkan jabatan dasar. Ketua adalah satu-satunya jabatan
// ber-flag PIC bawaan; flag inilah yang menentukan siapa boleh mengelola
// kegiatan (untuk role dosen).
func SeedJabatan(db *gorm.DB) {
	var count int64
	db.Model(&model.JabatanAnggota{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Jabatan sudah ada, skip seeding jabatan.")
		return
	}

	jabatan := []model.JabatanAnggota{
		{Nama: "Ketua", IsPIC: true},
		{Nama: "Sekretaris", IsPIC: false},
		{Nama: "Bendahara", IsPIC: false},
		{Nama: "Anggota", IsPIC: false},
	}

	if err := db.Create(&jabatan).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed jabatan: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed jabatan: Ketua (PIC), Sekretaris, Bendahara, Anggota")
}

// ===============================
//  SEED JENIS KEGIATAN
// ===============================

// SeedJenisKegiatan menambahkan jenis kegiatan awal. Jenis ber-flag instansi
// mewajibkan dosen pembuat menetapkan jabatannya sendiri saat membuat kegiatan.
func SeedJenisKegiatan(db *gorm.DB) {
	var count int64
	db.Model(&model.JenisKegiatan{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Jenis kegiatan sudah ada, skip seeding.")
		return
	}

	jenis := []model.JenisKegiatan{
		{Nama: "Penelitian", IsInstansi: false},
		{Nama: "Pengabdian Masyarakat", IsInstansi: false},
		{Nama: "Seminar", IsInstansi: false},
		{Nama: "Akreditasi", IsInstansi: true},
		{Nama: "Kerja Sama Instansi", IsInstansi: true},
	}

	if err := db.Create(&jenis).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed jenis kegiatan: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed jenis kegiatan")
}

// ===============================
//  SEED KOMPETENSI
// ===============================

func SeedKompetensi(db *gorm.DB) {
	var count int64
	db.Model(&model.Kompetensi{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Kompetensi sudah ada, skip seeding.")
		return
	}

	kompetensi := []model.Kompetensi{
		{Nama: "Kecerdasan Buatan"},
		{Nama: "Rekayasa Perangkat Lunak"},
		{Nama: "Jaringan Komputer"},
		{Nama: "Sistem Informasi"},
	}

	if err := db.Create(&kompetensi).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed kompetensi: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed kompetensi")
}

// ===============================
//  SEED USERS
// ===============================

// SeedUsers menambahkan 3 user awal:
// - admin
// - manajemen
// - dosen1
func SeedUsers(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] User sudah ada, skip seeding.")
		return
	}

	password := "123123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 10)

	users := []model.User{
		{
			NIDN:         "0000000001",
			Nama:         "Admin Sistem",
			Email:        "admin@kampus.ac.id",
			Role:         model.RoleAdmin,
			PasswordHash: string(hash),
		},
		{
			NIDN:         "0000000002",
			Nama:         "Staf Manajemen",
			Email:        "manajemen@kampus.ac.id",
			Role:         model.RoleManajemen,
			PasswordHash: string(hash),
		},
		{
			NIDN:         "0000000003",
			Nama:         "Dosen Satu",
			Email:        "dosen1@kampus.ac.id",
			Role:         model.RoleDosen,
			PasswordHash: string(hash),
		},
	}

	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed users: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed 3 user (admin, manajemen, dosen1), password: 123123")
}
