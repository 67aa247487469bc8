package mail

import (
	"bytes"
	htmltemplate "html/template"
	"math"
	texttemplate "text/template"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
)

// PasswordResetSubject asunto del correo de recuperación.
const PasswordResetSubject = "Recuperación de Contraseña - Dulcería Lilis"

const resetHTML = `<!DOCTYPE html>
<html lang="es">
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: #DC2626;">Recuperación de contraseña</h2>
  <p>Hola {{.Name}},</p>
  <p>Recibimos una solicitud para restablecer tu contraseña. Usa el siguiente enlace:</p>
  <p><a href="{{.Link}}" style="background: #DC2626; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Restablecer contraseña</a></p>
  <p>El enlace vence en {{.Minutes}} minuto(s) y sólo puede usarse una vez.</p>
  <p>Si no solicitaste este cambio, ignora este correo.</p>
</body>
</html>`

const resetText = `Hola {{.Name}},

Recibimos una solicitud para restablecer tu contraseña. Abre el siguiente enlace:

{{.Link}}

El enlace vence en {{.Minutes}} minuto(s) y sólo puede usarse una vez.
Si no solicitaste este cambio, ignora este correo.
`

var (
	resetHTMLTmpl = htmltemplate.Must(htmltemplate.New("reset_html").Parse(resetHTML))
	resetTextTmpl = texttemplate.Must(texttemplate.New("reset_text").Parse(resetText))
)

type resetData struct {
	Name    string
	Link    string
	Minutes int
}

// renderPasswordReset devuelve el cuerpo en texto plano y en HTML.
func renderPasswordReset(msg auth.PasswordResetMail) (plain, html string, err error) {
	data := resetData{Name: msg.Name, Link: msg.Link, Minutes: int(math.Ceil(msg.ExpiresIn.Minutes()))}
	if data.Name == "" {
		data.Name = msg.To
	}
	var pb, hb bytes.Buffer
	if err := resetTextTmpl.Execute(&pb, data); err != nil {
		return "", "", err
	}
	if err := resetHTMLTmpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return pb.String(), hb.String(), nil
}
