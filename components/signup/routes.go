package signup

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the page path for the component under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the page, events and asset routes under basePath
// on mux and returns the registered patterns.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers the routes using a pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("signup: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	endpoint := mountPath(basePath, opts.RoutePath)

	h, err := HandlerWithOptions(endpoint, opts)
	if err != nil {
		return nil, err
	}

	patterns := []string{endpoint, endpoint + "/events", h.assets}
	mux.Handle(patterns[0], h)
	mux.Handle(patterns[1], h.Events())
	mux.Handle(patterns[2], h.Assets())
	return patterns, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	routePath = strings.TrimRight(routePath, "/")
	if routePath == "" {
		routePath = "/"
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	if routePath == "/" {
		return basePath
	}
	return basePath + routePath
}
