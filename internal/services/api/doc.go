package api

import (
	_ "embed"
	"net/http"
)

// openapiJSON is the machine-readable API description served at /doc
// and consumed by the interactive explorer at /ui
//
//go:embed openapi.json
var openapiJSON []byte

const landingPage = `<!doctype html>
<html>
<head><title>cronslate</title></head>
<body>
<h1>cronslate</h1>
<p>POST a scheduling phrase to <code>/api/translate</code> and get a cron expression back.</p>
<p>See <a href="/ui">the API explorer</a> or the raw <a href="/doc">OpenAPI document</a>.</p>
</body>
</html>
`

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(openapiJSON)
}

func serveLanding(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(landingPage))
}
