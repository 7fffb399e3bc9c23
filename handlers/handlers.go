// Package handlers contains the demo API surface behind the guard stack.
// The handlers are deliberately thin; the interesting behavior is in the
// route policies applied in front of them.
package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/roadtodev/rolegate/authz"
	"github.com/roadtodev/rolegate/middleware"
	"github.com/roadtodev/rolegate/utils"
)

// Status reports service liveness. Mounted behind a public policy.
func Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Me echoes the caller's identity as seen by the guard.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimSetFromContext(r.Context())
		if !ok {
			_ = utils.WriteUnauthorized(w, authz.ReasonUnauthenticated)
			return
		}
		_ = utils.WriteOK(w, map[string]interface{}{
			"subject": claims.Subject,
			"roles":   claims.Roles.List(),
		})
	}
}

// ListArticles returns the article collection. Readable by viewers and
// editors.
func ListArticles() http.HandlerFunc {
	articles := []map[string]string{
		{"id": "9b2f8a44-0a31-4f30-b7a2-6f1c0d1f4c11", "title": "Getting started"},
		{"id": "f4c3a1d2-58be-4b6e-9a77-2f90b7f1e882", "title": "Release notes"},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, articles)
	}
}

// CreateArticle accepts a new article. Editors only.
func CreateArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.ClaimSetFromContext(r.Context())
		_ = utils.WriteCreated(w, map[string]string{
			"id":     uuid.New().String(),
			"author": claims.Subject,
		})
	}
}

// AdminSettings exposes administrative configuration. Admins only.
func AdminSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]interface{}{
			"registration_open": false,
			"maintenance_mode":  false,
		})
	}
}
