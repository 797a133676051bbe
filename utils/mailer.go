package utils

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer mengirim email transaksional. Dibuat interface supaya AuthService bisa
// dites dengan fake tanpa benar-benar memanggil SendGrid.
type Mailer interface {
	KirimResetPassword(email, nama, token string) error
}

type sendgridMailer struct {
	apiKey      string
	from        *sgmail.Email
	frontendURL string
}

// NewSendgridMailer membaca konfigurasi SendGrid dari environment:
// SENDGRID_API_KEY, MAIL_FROM_NAME, MAIL_FROM_EMAIL, FRONTEND_URL.
func NewSendgridMailer() (Mailer, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil, errors.New("SENDGRID_API_KEY is not configured")
	}

	fromName := os.Getenv("MAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Kegiatan Backend"
	}
	fromEmail := os.Getenv("MAIL_FROM_EMAIL")
	if fromEmail == "" {
		return nil, errors.New("MAIL_FROM_EMAIL is not configured")
	}

	return &sendgridMailer{
		apiKey:      apiKey,
		from:        sgmail.NewEmail(fromName, fromEmail),
		frontendURL: os.Getenv("FRONTEND_URL"),
	}, nil
}

// KirimResetPassword mengirim link reset password ke email user.
// Token mentah hanya hidup di email ini; database cuma menyimpan hash-nya.
func (m *sendgridMailer) KirimResetPassword(email, nama, token string) error {
	to := sgmail.NewEmail(nama, email)
	subject := "Reset Password Akun Anda"

	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	plain := fmt.Sprintf(
		"Halo %s,\n\nKami menerima permintaan reset password untuk akun Anda.\n"+
			"Silakan buka link berikut dalam 1 jam:\n\n%s\n\n"+
			"Abaikan email ini jika Anda tidak meminta reset password.",
		nama, link,
	)
	html := fmt.Sprintf(
		"<p>Halo %s,</p><p>Kami menerima permintaan reset password untuk akun Anda. "+
			"Silakan klik link berikut dalam 1 jam:</p><p><a href=%q>Reset Password</a></p>"+
			"<p>Abaikan email ini jika Anda tidak meminta reset password.</p>",
		nama, link,
	)

	message := sgmail.NewSingleEmail(m.from, subject, to, plain, html)
	client := sendgrid.NewSendClient(m.apiKey)

	res, err := client.Send(message)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid menolak request: status %d", res.StatusCode)
	}
	return nil
}
