package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/silvacore/patrimony/modules/core/domain/aggregates/user"
	"github.com/silvacore/patrimony/modules/core/services"
	"github.com/silvacore/patrimony/pkg/composables"
)

// Identity headers supplied by the authenticating edge in front of this
// service. Requests without them proceed unauthenticated and fail at the
// first permission check.
const (
	HeaderUserID       = "X-User-ID"
	HeaderOrganization = "X-Organization-ID"
	HeaderPrivileged   = "X-Privileged"
	HeaderPermissions  = "X-Permissions"
)

func parsePermissions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WithIdentity builds the caller identity from the edge headers and
// resolves its tenant scope before any handler runs.
func WithIdentity(scopes *services.ScopeService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if rawID == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := uuid.Parse(rawID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			var orgID *uuid.UUID
			if rawOrg := strings.TrimSpace(r.Header.Get(HeaderOrganization)); rawOrg != "" {
				if parsed, err := uuid.Parse(rawOrg); err == nil {
					orgID = &parsed
				}
			}
			privileged := strings.EqualFold(r.Header.Get(HeaderPrivileged), "true")
			identity := user.New(userID, orgID, privileged, parsePermissions(r.Header.Get(HeaderPermissions)))

			ctx := composables.WithIdentity(r.Context(), identity)
			if scope, err := scopes.ResolveScope(ctx, identity); err == nil {
				ctx = composables.WithScope(ctx, scope)
				if !scope.Privileged {
					// sinks writing outside the scoped transaction
					// (audit) read the tenant id directly
					ctx = composables.WithTenantID(ctx, scope.OrganizationID)
				}
			}

			if entry, ok := composables.UseLogger(ctx); ok {
				fields := logrus.Fields{"user-id": userID}
				if ip, ok := composables.UseIP(ctx); ok {
					fields["ip"] = ip
				}
				if ua, ok := composables.UseUserAgent(ctx); ok {
					fields["user-agent"] = ua
				}
				entry.WithFields(fields).Debug("identity attached")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
