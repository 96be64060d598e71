package httpkit

import (
	"net/http"

	phttp "cronslate/internal/platform/net/http"
)

// PostJSON mounts a validated JSON handler under POST
// the payload runs through bind (validator tags apply) before fn is called
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// Get registers a no-body handler and uses the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post registers a no-body handler and uses the envelope adapter
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}
