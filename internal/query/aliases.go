package query

import (
	_ "embed"
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

// AliasExpander resolves a search term to known alias/acronym variations.
// It is an interface because the synonym table is business data that should
// stay swappable, not a mapping baked into the query engine.
type AliasExpander interface {
	Expand(term string) []string
}

//go:embed aliases.yaml
var aliasTable []byte

// StaticAliases is the default in-memory expander, loaded from the embedded
// synonym table.
type StaticAliases struct {
	table map[string][]string
}

func NewStaticAliases() *StaticAliases {
	table := map[string][]string{}
	if err := yaml.Unmarshal(aliasTable, &table); err != nil {
		// The table ships with the binary; a parse failure means a bad
		// edit, and search still works without expansions.
		log.Printf("[SEARCH] action=load_aliases msg=failed to parse alias table: %v", err)
		table = map[string][]string{}
	}
	normalized := make(map[string][]string, len(table))
	for k, v := range table {
		normalized[strings.ToLower(k)] = v
	}
	return &StaticAliases{table: normalized}
}

func (a *StaticAliases) Expand(term string) []string {
	return a.table[strings.ToLower(strings.TrimSpace(term))]
}
