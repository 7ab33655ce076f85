// Package migrations embebe los archivos SQL de migración.
package migrations

import "embed"

// FS contiene las migraciones Postgres ordenadas por prefijo numérico.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir es el directorio dentro de FS donde viven las migraciones.
const Dir = "sql"
