package service

import "errors"

// Sentinel domain. Kondisi "tidak ditemukan" dan kegagalan otorisasi dilewatkan
// sebagai nilai error biasa sampai layer routes, yang menerjemahkannya ke
// status HTTP (404 / 401 / 403) — bukan lewat panic/exception.
var (
	ErrKegiatanTidakDitemukan      = errors.New("kegiatan tidak ditemukan")
	ErrJenisKegiatanTidakDitemukan = errors.New("jenis kegiatan tidak ditemukan")
	ErrAgendaTidakDitemukan        = errors.New("agenda tidak ditemukan")
	ErrProgressTidakDitemukan      = errors.New("progress tidak ditemukan")
	ErrUserTidakDitemukan          = errors.New("user tidak ditemukan")
	ErrJabatanTidakDitemukan       = errors.New("jabatan tidak ditemukan")
	ErrKompetensiTidakDitemukan    = errors.New("kompetensi tidak ditemukan")
	ErrLampiranTidakDitemukan      = errors.New("lampiran tidak ditemukan")

	// Dua kegagalan otorisasi per-kegiatan. Keduanya terminal dan bagi klien
	// tampak sama (tidak membocorkan kegiatan mana yang ada).
	ErrBukanAnggota = errors.New("user bukan anggota kegiatan")
	ErrBukanPIC     = errors.New("jabatan user bukan penanggung jawab kegiatan")

	// Aturan kegiatan instansi: dosen pembuat wajib menetapkan jabatannya
	// sendiri dalam request yang sama.
	ErrJabatanPembuatWajib = errors.New("jabatan pembuat kegiatan wajib diisi")

	// Anggota agenda harus subset anggota kegiatan induknya.
	ErrAnggotaBukanAnggotaKegiatan = errors.New("anggota agenda harus anggota kegiatan induk")

	ErrRoomTidakDitemukan    = errors.New("room chat tidak ditemukan")
	ErrPesanTidakDitemukan   = errors.New("pesan tidak ditemukan")
	ErrTidakAdaPesanLampiran = errors.New("tidak ada pesan dengan lampiran")
	ErrPesanKosong           = errors.New("teks pesan tidak boleh kosong")

	ErrEmailAtauPasswordSalah = errors.New("email atau password salah")
	ErrTokenResetTidakValid   = errors.New("token reset tidak valid atau kedaluwarsa")
)
