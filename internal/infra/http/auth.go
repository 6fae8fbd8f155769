package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

type Authenticator interface {
	Authenticate(c *gin.Context) (domain.Principal, error)
}

// HeaderAuthenticator trusts identity headers injected by the gateway in
// front of this service. Session issuance and credential checks live there.
type HeaderAuthenticator struct{}

func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{}
}

func (h *HeaderAuthenticator) Authenticate(c *gin.Context) (domain.Principal, error) {
	principal := domain.Principal{
		Subject: strings.TrimSpace(c.GetHeader("X-Principal-Subject")),
		FirmID:  strings.TrimSpace(c.GetHeader("X-Principal-Firm")),
	}
	if roles := strings.TrimSpace(c.GetHeader("X-Principal-Roles")); roles != "" {
		principal.Roles = splitCSV(roles)
	}
	return principal, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
