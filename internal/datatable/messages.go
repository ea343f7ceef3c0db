package datatable

import (
	"fmt"
	"strings"
)

// Messages holds the user-facing strings a table renders.
type Messages struct {
	Caption           string // format with from, to, total
	Empty             string
	Loading           string
	SearchPlaceholder string
}

var catalogs = map[string]Messages{
	"en": {
		Caption:           "Showing %d - %d of %d records",
		Empty:             "No records found",
		Loading:           "Loading...",
		SearchPlaceholder: "Search...",
	},
	"pt-br": {
		Caption:           "Mostrando %d - %d de %d registros",
		Empty:             "Nenhum registro encontrado",
		Loading:           "Carregando...",
		SearchPlaceholder: "Buscar...",
	},
}

// MessagesFor returns the catalog for locale ("en", "pt-BR"), falling back to
// English for anything unknown.
func MessagesFor(locale string) Messages {
	if m, ok := catalogs[strings.ToLower(locale)]; ok {
		return m
	}
	return catalogs["en"]
}

// Locales lists the locales MessagesFor understands.
func Locales() []string {
	return []string{"en", "pt-BR"}
}

func (m Messages) caption(from, to, total int) string {
	return fmt.Sprintf(m.Caption, from, to, total)
}
