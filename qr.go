package main

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// serveSessionQR renders a QR code pointing at the room's join URL, for
// displaying on a shared screen so players can scan in.
func serveSessionQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}

		joinPath := strings.TrimSuffix(r.URL.Path, "/qr")
		url := scheme + "://" + r.Host + joinPath

		png, err := qrcode.Encode(url, qrcode.Medium, 320)
		if err != nil {
			http.Error(w, "failed to generate QR code", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		_, _ = w.Write(png)

		logf(cfg, "ROOMS: QR code for %s served to %s", p.ByName("code"), realIP(r))
	}
}
