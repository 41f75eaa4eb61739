// Package util contiene helpers chicos sin dependencias de dominio.
package util

import (
	"net/url"
	"regexp"
	"strings"
)

func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		if s == "" {
			return ""
		}
		if len(s) <= 3 {
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	user, dom := s[:i], s[i+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	dparts := strings.Split(dom, ".")
	if len(dparts) > 0 && len(dparts[0]) > 1 {
		dparts[0] = dparts[0][:1] + "…"
	}
	return user + "@" + strings.Join(dparts, ".")
}

var (
	kvPasswordRe = regexp.MustCompile(`(?i)(password|pwd)=('[^']*'|[^\s;&]*)`)
	mysqlCredsRe = regexp.MustCompile(`^([^:@/()]+):([^@]*)@`)
	passwordMask = "***"
)

// MaskDSN oculta la contraseña de un connection string. Soporta URLs
// (postgres://u:p@h/db), el formato de go-sql-driver (u:p@tcp(h)/db) y
// pares clave=valor (host=h password=p).
func MaskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	if strings.Contains(dsn, "://") {
		if u, err := url.Parse(dsn); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), passwordMask)
				return u.String()
			}
			return kvPasswordRe.ReplaceAllString(dsn, "${1}="+passwordMask)
		}
	}
	if m := mysqlCredsRe.FindStringSubmatch(dsn); m != nil {
		return m[1] + ":" + passwordMask + "@" + dsn[len(m[0]):]
	}
	return kvPasswordRe.ReplaceAllString(dsn, "${1}="+passwordMask)
}
