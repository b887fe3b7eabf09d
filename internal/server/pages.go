package server

import (
	"html/template"
	"net/http"

	"github.com/Guerrilla-Interactive/readmegen/internal/auth"
	"go.uber.org/zap"
)

type pageData struct {
	User      auth.User
	SignInURL string
	ServerURL string
	Error     string
}

const pageStyle = `<style>body{font-family:system-ui,sans-serif;max-width:40rem;margin:4rem auto;padding:0 1rem;color:#222}
a.button{display:inline-block;padding:.6rem 1.2rem;background:#ff3600;color:#fff;border-radius:.4rem;text-decoration:none}
.error{color:#b91c1c}code{background:#f3f3f3;padding:.1rem .3rem;border-radius:.2rem}</style>`

var homePage = template.Must(template.New("home").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>readmegen</title>` + pageStyle + `</head><body>
<h1>readmegen</h1>
<p>Generate a GitHub profile README from a short questionnaire in your terminal.</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<p><a class="button" href="{{.SignInURL}}">Sign in with GitHub</a></p>
</body></html>`))

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>readmegen · dashboard</title>` + pageStyle + `</head><body>
<h1>Welcome, {{if .User.Name}}{{.User.Name}}{{else}}{{.User.Email}}{{end}}</h1>
{{if .User.GitHubUsername}}<p>Signed in as <strong>@{{.User.GitHubUsername}}</strong></p>{{end}}
<p>Run <code>readmegen</code> in your terminal to start the questionnaire.
Point it at this server with <code>READMEGEN_SERVER_URL={{.ServerURL}}</code>.</p>
</body></html>`))

func renderPage(w http.ResponseWriter, logger *zap.Logger, t *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		logger.Error("failed to render page", zap.String("page", t.Name()), zap.Error(err))
	}
}
