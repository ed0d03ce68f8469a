package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips variable sigil", "#input.orderMetadata.orderId", "input.orderMetadata.orderId"},
		{"keeps safe navigation", "#input?.orderMetadata?.vertical", "input?.orderMetadata?.vertical"},
		{"rewrites elvis", "#input.orderMetadata.vertical ?: 'FOOD'", "(input.orderMetadata.vertical) ?? ('FOOD')"},
		{"elvis fallback takes arithmetic", "#a ?: 0 + 1", "(a) ?? (0 + 1)"},
		{"elvis operand takes comparison", "#a + #b ?: 'X' == 'Y'", "(a + b) ?? ('X' == 'Y')"},
		{"chained elvis", "#a ?: #b ?: 0", "(a) ?? ((b) ?? (0))"},
		{"elvis ends at comma", "streamSum(#a ?: #b, 'amount')", "streamSum((a) ?? (b), 'amount')"},
		{"elvis ends at bracket", "(#a ?: 1) * 2", "((a) ?? (1)) * 2"},
		{"ternary inside fallback", "#a ?: #b ? 'Y' : 'N'", "(a) ?? (b ? 'Y' : 'N')"},
		{"elvis inside ternary branch", "#c ? #a ?: 1 : 2", "c ? (a) ?? (1): 2"},
		{"elvis inside map literal", "{k: #a ?: 1}", "{k: (a) ?? (1)}"},
		{"rewrites null literal", "#item.amount == null", "item.amount == nil"},
		{"keeps null member names", "#item.null", "item.null"},
		{"ignores string contents", `'#input ?: null' + "a\"#b"`, `'#input ?: null' + "a\"#b"`},
		{"keeps closure pointers", "map(#item.list, #index)", "map(item.list, #index)"},
		{"keeps bare closure pointer", "filter(#item.list, # > 1)", "filter(item.list, # > 1)"},
		{"subscript with quoted key", "#invoicingItems['BASE_PRICE']?.netAmount?.value", "invoicingItems['BASE_PRICE']?.netAmount?.value"},
		{"ternary untouched", "#isVatOptimisedOrder ? 'Y' : 'N'", "isVatOptimisedOrder ? 'Y' : 'N'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.in))
		})
	}
}
