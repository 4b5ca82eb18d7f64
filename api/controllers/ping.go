package controllers

import (
	"net/http"

	"github.com/yeezuz2020/store-api/api/middleware"
	"github.com/yeezuz2020/store-api/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "admin", "status": "ok"}
		if subject := middleware.AdminSubjectFromContext(r.Context()); subject != "" {
			payload["subject"] = subject
		}
		responses.WriteSuccess(w, payload)
	}
}
