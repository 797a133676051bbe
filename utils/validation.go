package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators mendaftarkan rule validasi custom ke validator
// bawaan Gin. Panggil sekali dari main sebelum route didaftarkan.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("objectid", validasiObjectID)
	}
}

// validasiObjectID memastikan field berupa ID 24 karakter hex lowercase,
// format yang sama dengan yang dihasilkan model.NewID(). Validasi format di
// sini supaya ID acak-acakan langsung ditolak 400, tidak sampai query database.
func validasiObjectID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) != 24 {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
