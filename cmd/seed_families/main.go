// seed_families genera el script SQL que carga las familias de producto (coeficiente de merma)
// a partir del CSV Latin-1 "label;scrap_percent" que mantiene compras.
//
// Uso: go run ./cmd/seed_families [ruta/families.csv]
// Por defecto lee data/families.csv. Si SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD están definidas
// agrega un usuario ADMIN con la contraseña hasheada con bcrypt.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_families.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/apurement-api/internal/application/auth"
	"github.com/jhoicas/apurement-api/internal/infrastructure/seed"
)

func main() {
	moduleRoot := findModuleRoot()
	csvPath := filepath.Join(moduleRoot, "data", "families.csv")
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	families, err := seed.ParseFamiliesCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer familias: %v\n", err)
		os.Exit(1)
	}
	if len(families) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene familias")
		os.Exit(1)
	}
	// salida estable
	sort.Slice(families, func(i, j int) bool { return families[i].Label < families[j].Label })

	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_families.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Familias de producto y porcentaje de merma\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))

	out.WriteString("INSERT INTO sa_families (id, label, scrap_percent, is_active) VALUES\n")
	for i, fam := range families {
		sep := ","
		if i == len(families)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', %s, TRUE)%s\n", fam.ID, escapeSQL(fam.Label), fam.ScrapPercent.StringFixed(2), sep)
	}
	out.WriteString("ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, scrap_percent = EXCLUDED.scrap_percent;\n")

	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email != "" && password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
			os.Exit(1)
		}
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email))
		out.WriteString("\n-- Usuario administrador inicial\n")
		fmt.Fprintf(out, "INSERT INTO users (id, full_name, email, password_hash, is_active)\n")
		fmt.Fprintf(out, "VALUES ('%s', 'Administrador', '%s', '%s', TRUE)\n", id, escapeSQL(email), hash)
		out.WriteString("ON CONFLICT DO NOTHING;\n")
		fmt.Fprintf(out, "INSERT INTO user_roles (user_id, role)\n")
		fmt.Fprintf(out, "SELECT id, 'ADMIN' FROM users WHERE LOWER(email) = '%s'\n", escapeSQL(email))
		out.WriteString("ON CONFLICT DO NOTHING;\n")
	}

	fmt.Printf("Generado %s: %d familias\n", outPath, len(families))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
