package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	jwtx "github.com/dropDatabas3/adminhub/internal/jwt"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/util/atomicwrite"
)

const adminPrefix = "/api/admin"

// resources mapea el nombre de CLI al segmento de ruta.
var resources = map[string]string{
	"staff":            "staff",
	"dictionary-types": "dictionary-types",
	"apis":             "apis",
	"tenants":          "tenants",
}

func resourcePath(name string) (string, error) {
	seg, ok := resources[name]
	if !ok {
		return "", fmt.Errorf("recurso desconocido %q (staff|dictionary-types|apis|tenants)", name)
	}
	return adminPrefix + "/" + seg, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido %q", s)
	}
	return id, nil
}

func newListCmd(g *globals) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Lista registros activos (staff|dictionary-types|apis|tenants)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resourcePath(args[0])
			if err != nil {
				return err
			}
			if key != "" {
				p += "?key=" + url.QueryEscape(key)
			}
			var out []map[string]any
			if err := g.client().call(cmd.Context(), http.MethodGet, p, nil, &out); err != nil {
				return err
			}
			return g.printer(cmd).print(out)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Filtro de búsqueda")
	return cmd
}

func newGetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Trae un registro por id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resourcePath(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			var out map[string]any
			if err := g.client().call(cmd.Context(), http.MethodGet, fmt.Sprintf("%s/%d", p, id), nil, &out); err != nil {
				return err
			}
			return g.printer(cmd).print(out)
		},
	}
}

func newDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id> [id...]",
		Short: "Baja lógica de uno o más registros",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resourcePath(args[0])
			if err != nil {
				return err
			}
			ids := make([]int64, 0, len(args)-1)
			for _, s := range args[1:] {
				id, err := parseID(s)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			var out dto.AffectedResponse
			c := g.client()
			if len(ids) == 1 {
				err = c.call(cmd.Context(), http.MethodDelete, fmt.Sprintf("%s/%d", p, ids[0]), nil, &out)
			} else {
				err = c.call(cmd.Context(), http.MethodPut, p+"/batch-soft-delete", dto.IDsRequest{IDs: ids}, &out)
			}
			if err != nil {
				return err
			}
			return g.printer(cmd).print(out)
		},
	}
}

func newApisCmd(g *globals) *cobra.Command {
	apis := &cobra.Command{Use: "apis", Short: "Operaciones sobre el catálogo de APIs"}

	var file string
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Sincroniza el catálogo con un JSON de items {path, parent_path, http_methods, ...}",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file es requerido")
			}
			b, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var req dto.ApiSyncRequest
			if err := json.Unmarshal(b, &req); err != nil {
				// también aceptamos un array pelado
				if err2 := json.Unmarshal(b, &req.Apis); err2 != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
			}
			var out dto.ApiSyncResponse
			if err := g.client().call(cmd.Context(), http.MethodPost, adminPrefix+"/apis/sync", req, &out); err != nil {
				return err
			}
			return g.printer(cmd).print(out)
		},
	}
	sync.Flags().StringVar(&file, "file", "", "Ruta al JSON con los items")
	apis.AddCommand(sync)
	return apis
}

func newTenantsCmd(g *globals) *cobra.Command {
	tenants := &cobra.Command{Use: "tenants", Short: "Operaciones sobre tenants"}
	tenants.AddCommand(&cobra.Command{
		Use:   "migrate <id>",
		Short: "Aplica migraciones pendientes en la base propia del tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var out dto.MigrationResponse
			if err := g.client().call(cmd.Context(), http.MethodPost, fmt.Sprintf("%s/tenants/%d/migrate", adminPrefix, id), nil, &out); err != nil {
				return err
			}
			return g.printer(cmd).print(out)
		},
	})
	return tenants
}

func newDictionaryTypesCmd(g *globals) *cobra.Command {
	dt := &cobra.Command{Use: "dictionary-types", Short: "Operaciones sobre tipos de diccionario"}

	var (
		output      string
		key         string
		onlyEnabled bool
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Descarga el export xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if key != "" {
				q.Set("key", key)
			}
			if onlyEnabled {
				q.Set("only_enabled", "true")
			}
			p := adminPrefix + "/dictionary-types/export"
			if len(q) > 0 {
				p += "?" + q.Encode()
			}
			b, err := g.client().download(cmd.Context(), p)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("dictionary_types_%s.xlsx", time.Now().Format("20060102150405"))
			}
			if err := atomicwrite.WriteFile(output, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", output, len(b))
			return nil
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "Archivo destino")
	export.Flags().StringVar(&key, "key", "", "Filtro de búsqueda")
	export.Flags().BoolVar(&onlyEnabled, "only-enabled", false, "Solo habilitados")
	dt.AddCommand(export)
	return dt
}

func newTokenCmd() *cobra.Command {
	var (
		secret    string
		issuer    string
		ttl       time.Duration
		userID    int64
		userName  string
		tenantID  int64
		isolation string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Firma un access token HS256 (útil en dev/ops)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(secret) < 32 {
				return fmt.Errorf("--secret debe tener al menos 32 caracteres (env ADMINHUB_AUTH_JWT_SECRET)")
			}
			u := claims.User{ID: userID, Name: userName}
			if tenantID > 0 {
				iso := repository.DataIsolationType(isolation)
				if !iso.Valid() {
					return fmt.Errorf("--isolation debe ser share_db u own_db")
				}
				u.TenantID = &tenantID
				u.DataIsolationType = iso
			}
			tok, err := jwtx.NewIssuer(issuer, secret, ttl).Sign(u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", envOr("ADMINHUB_AUTH_JWT_SECRET", ""), "Secreto HS256")
	cmd.Flags().StringVar(&issuer, "issuer", envOr("ADMINHUB_AUTH_ISSUER", "adminhub"), "Issuer")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Vigencia")
	cmd.Flags().Int64Var(&userID, "user-id", 1, "Id del usuario")
	cmd.Flags().StringVar(&userName, "user-name", "admin", "Nombre del usuario")
	cmd.Flags().Int64Var(&tenantID, "tenant-id", 0, "Tenant (0 = usuario de plataforma)")
	cmd.Flags().StringVar(&isolation, "isolation", string(repository.IsolationShareDb), "share_db|own_db")
	return cmd
}

func newEncryptCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Cifra un connection string con la master key de secretbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := secretbox.New(key)
			if err != nil {
				return err
			}
			if !box.Enabled() {
				return fmt.Errorf("--key es requerido (env ADMINHUB_SECURITY_SECRETBOX_MASTER_KEY)")
			}
			enc, err := box.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enc)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", envOr("ADMINHUB_SECURITY_SECRETBOX_MASTER_KEY", ""), "Master key (base64 o hex, 32 bytes)")
	return cmd
}

func newGenKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-key",
		Short: "Genera una master key de secretbox (base64, 32 bytes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := make([]byte, 32)
			if _, err := rand.Read(k); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(k))
			return nil
		},
	}
}
