// internal/server/templates.go
package server

import (
	"html/template"
	"net/http"
)

type pageData struct {
	Username string
	Endpoint string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>baffle</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 2em auto; padding: 0 1em; }
code { background: #f0f0f0; padding: 0.1em 0.3em; }
</style>
</head>
<body>
<h1>baffle</h1>
<p>A Microsub endpoint for your <a href="https://newsblur.com">NewsBlur</a> subscriptions.</p>
{{if .Username}}
<p id="signup-result">You're signed up, <strong>{{.Username}}</strong>! Point your Microsub reader at <code>{{.Endpoint}}</code> and log in with your own site.</p>
{{else}}
<p>Make sure your NewsBlur profile lists your web site, then <a href="/newsblur/start">sign up</a>.</p>
{{end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, pageData{})
}

func (s *Server) renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Printf("Error rendering page: %v", err)
	}
}
