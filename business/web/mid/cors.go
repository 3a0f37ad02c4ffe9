package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/Jeston10/JestoGP9Te/foundation/web"
)

// Cors answers browsers calling the node from one of the allowed origins.
// An origin of "*" allows any caller. Requests from other origins are still
// served but receive no Access-Control headers, so the browser blocks them.
func Cors(origins []string) web.Middleware {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[strings.ToLower(o)] = struct{}{}
		}
	}

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin == "":
			default:
				w.Header().Add("Vary", "Origin")
				if _, ok := allowed[strings.ToLower(origin)]; !ok {
					return handler(ctx, w, r)
				}
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			if allowAll || origin != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
