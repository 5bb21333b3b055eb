package repository

import (
	"testing"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

func strPtr(s string) *string { return &s }

func TestItemWhere(t *testing.T) {
	tests := []struct {
		name     string
		filter   models.ItemFilter
		wantSQL  string
		wantArgs int
	}{
		{
			name: "empty",
		},
		{
			name:     "title",
			filter:   models.ItemFilter{TitleContains: strPtr("shoe")},
			wantSQL:  " WHERE title ILIKE '%' || $1 || '%'",
			wantArgs: 1,
		},
		{
			name:     "title and description",
			filter:   models.ItemFilter{TitleContains: strPtr("a"), DescriptionContains: strPtr("b")},
			wantSQL:  " WHERE title ILIKE '%' || $1 || '%' AND description ILIKE '%' || $2 || '%'",
			wantArgs: 2,
		},
		{
			name:     "search",
			filter:   models.ItemFilter{Search: strPtr("hat")},
			wantSQL:  " WHERE (title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')",
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := itemWhere(tt.filter)
			if sql != tt.wantSQL {
				t.Fatalf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Fatalf("args = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestItemOrderClausesCoverAllOrders(t *testing.T) {
	for _, o := range []models.ItemOrder{
		models.ItemOrderCreatedAtDesc,
		models.ItemOrderCreatedAtAsc,
		models.ItemOrderPriceAsc,
		models.ItemOrderPriceDesc,
		models.ItemOrderTitleAsc,
		models.ItemOrderTitleDesc,
	} {
		if _, ok := itemOrderClauses[o]; !ok {
			t.Errorf("missing order clause for %s", o)
		}
	}
}

func TestItemWhereEscapesWildcards(t *testing.T) {
	tests := map[string]string{
		"%":          `\%`,
		"50% off":    `50\% off`,
		"snake_case": `snake\_case`,
		`back\slash`: `back\\slash`,
		"plain":      "plain",
	}
	for in, want := range tests {
		_, args := itemWhere(models.ItemFilter{Search: strPtr(in)})
		if len(args) != 1 || args[0] != want {
			t.Errorf("search %q: args = %v, want [%s]", in, args, want)
		}
	}
}
