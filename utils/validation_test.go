package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidasiObjectID(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("objectid", validasiObjectID))

	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "id 24 hex valid", id: "665f1a2b3c4d5e6f7a8b9c0d", valid: true},
		{name: "terlalu pendek", id: "665f1a2b3c4d", valid: false},
		{name: "terlalu panjang", id: "665f1a2b3c4d5e6f7a8b9c0d00", valid: false},
		{name: "huruf kapital ditolak", id: "665F1A2B3C4D5E6F7A8B9C0D", valid: false},
		{name: "karakter non-hex", id: "665f1a2b3c4d5e6f7a8b9cz!", valid: false},
		{name: "kosong", id: "", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.id, "objectid")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
