package routes

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/service"
	"kegiatan-backend/utils"

	"github.com/gin-gonic/gin"
)

// tulisErrorDomain menerjemahkan error domain ke respon HTTP yang sesuai.
// Pemetaan:
//   - sentinel "tidak ditemukan"            -> 404
//   - ErrBukanAnggota / ErrBukanPIC         -> 403 (pesan disamakan, tidak
//     membocorkan kegiatan mana yang ada)
//   - aturan domain (jabatan wajib, dll)    -> 400
//   - ConstraintViolation unique            -> 422 (duplikat data)
//   - ConstraintViolation foreign key       -> 400 (referensi tidak valid)
//   - selain itu                            -> 500
func tulisErrorDomain(ctx *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrKegiatanTidakDitemukan),
		errors.Is(err, service.ErrJenisKegiatanTidakDitemukan),
		errors.Is(err, service.ErrAgendaTidakDitemukan),
		errors.Is(err, service.ErrProgressTidakDitemukan),
		errors.Is(err, service.ErrUserTidakDitemukan),
		errors.Is(err, service.ErrJabatanTidakDitemukan),
		errors.Is(err, service.ErrKompetensiTidakDitemukan),
		errors.Is(err, service.ErrLampiranTidakDitemukan),
		errors.Is(err, service.ErrRoomTidakDitemukan),
		errors.Is(err, service.ErrPesanTidakDitemukan),
		errors.Is(err, service.ErrTidakAdaPesanLampiran):
		ctx.JSON(http.StatusNotFound, utils.BuildResponseFailed(message, err.Error(), nil))

	case errors.Is(err, service.ErrBukanAnggota), errors.Is(err, service.ErrBukanPIC):
		ctx.JSON(http.StatusForbidden,
			utils.BuildResponseFailed(message, "tidak berwenang mengelola kegiatan ini", nil))

	case errors.Is(err, service.ErrJabatanPembuatWajib),
		errors.Is(err, service.ErrAnggotaBukanAnggotaKegiatan),
		errors.Is(err, service.ErrPesanKosong):
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed(message, err.Error(), nil))

	case repository.IsForeignKeyViolation(err):
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed(message, "referensi data tidak valid", nil))

	default:
		var cv *repository.ConstraintViolation
		if errors.As(err, &cv) && cv.Kind == repository.ViolationUnique {
			ctx.JSON(http.StatusUnprocessableEntity,
				utils.BuildResponseFailed(message, "data duplikat: "+cv.Constraint, nil))
			return
		}
		ctx.JSON(http.StatusInternalServerError, utils.BuildResponseFailed(message, err.Error(), nil))
	}
}

// bacaFileUpload membaca seluruh berkas multipart ke memori sebagai
// service.FileUpload. Ingestion content-addressed butuh seluruh bytes untuk
// menghitung digest sebelum memutuskan upload.
func bacaFileUpload(headers []*multipart.FileHeader) ([]service.FileUpload, error) {
	uploads := make([]service.FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.FileUpload{
			Nama:        fh.Filename,
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}
