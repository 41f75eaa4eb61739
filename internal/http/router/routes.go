package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
)

// Declared recorre r y devuelve las rutas bajo /api/admin como items de
// sincronización de APIs, un item por path con sus métodos agrupados.
// Los paths intermedios (ej: /api/admin/staff) actúan como padres.
func Declared(r chi.Routes) ([]dto.ApiSyncItem, error) {
	methods := map[string][]string{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = strings.TrimSuffix(route, "/")
		if !strings.HasPrefix(route, AdminPrefix+"/") {
			return nil
		}
		methods[route] = append(methods[route], method)
		return nil
	})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(methods))
	for p := range methods {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]dto.ApiSyncItem, 0, len(paths))
	for _, p := range paths {
		ms := methods[p]
		sort.Strings(ms)
		out = append(out, dto.ApiSyncItem{
			Path:        p,
			Label:       label(p),
			ParentPath:  parent(p, methods),
			HttpMethods: strings.Join(ms, ","),
		})
	}
	return out, nil
}

// parent es el prefijo declarado más largo de p.
func parent(p string, declared map[string][]string) string {
	for i := strings.LastIndex(p, "/"); i > len(AdminPrefix); i = strings.LastIndex(p[:i], "/") {
		if _, ok := declared[p[:i]]; ok {
			return p[:i]
		}
	}
	return ""
}

func label(p string) string {
	rest := strings.TrimPrefix(p, AdminPrefix+"/")
	return strings.ReplaceAll(rest, "/", " ")
}
