package guideline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  TokenRole
	}{
		{name: "cost center prefix", token: "MPK610", want: RoleCostCenter},
		{name: "lowercase cost center prefix", token: "mpk610", want: RoleCostCenter},
		{name: "cost center wins over slash pattern", token: "MPK3/8", want: RoleCostCenter},
		{name: "group", token: "3/8", want: RoleGroup},
		{name: "two digit group", token: "12/34", want: RoleGroup},
		{name: "three digit second part is a group", token: "1/100", want: RoleGroup},
		{name: "historical number", token: "180/2025", want: RoleHistoricalNumber},
		{name: "padded historical number", token: "007/2024", want: RoleHistoricalNumber},
		{name: "surrounding whitespace ignored", token: "  3/8 ", want: RoleGroup},
		{name: "free text", token: "koszty biurowe", want: RoleUnknown},
		{name: "empty", token: "", want: RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyToken(tt.token))
		})
	}
}

func TestParseLabel(t *testing.T) {
	t.Run("full label", func(t *testing.T) {
		label := ParseLabel("3/8;MPK610;180/2025")

		assert.Equal(t, "MPK610", label.CostCenter)
		assert.Equal(t, "3/8", label.Group)
		assert.True(t, label.HasHistorical)
		assert.Equal(t, 180, label.HistoricalValue)
		assert.Equal(t, 2025, label.HistoricalYear)
	})

	t.Run("token order does not matter", func(t *testing.T) {
		label := ParseLabel(" 180/2025 ; mpk610 ; 3/8 ")

		assert.Equal(t, "MPK610", label.CostCenter)
		assert.Equal(t, "3/8", label.Group)
		assert.Equal(t, 180, label.HistoricalValue)
	})

	t.Run("label without number", func(t *testing.T) {
		label := ParseLabel("3/8;MPK610")

		assert.Equal(t, "MPK610", label.CostCenter)
		assert.Equal(t, "3/8", label.Group)
		assert.False(t, label.HasHistorical)
	})

	t.Run("last token of a role wins", func(t *testing.T) {
		label := ParseLabel("3/8;4/9;MPK610")

		assert.Equal(t, "4/9", label.Group)
	})

	t.Run("out of range historical number is ignored", func(t *testing.T) {
		tests := []string{
			"3/8;MPK610;1000000/2025",
			"3/8;MPK610;9223372036854775807/2025",
			"3/8;MPK610;99999999999999999999/2025",
		}
		for _, raw := range tests {
			label := ParseLabel(raw)

			assert.Equal(t, "MPK610", label.CostCenter, raw)
			assert.Equal(t, "3/8", label.Group, raw)
			assert.False(t, label.HasHistorical, raw)
			assert.Zero(t, label.HistoricalValue, raw)
		}
	})

	t.Run("largest historical number is kept", func(t *testing.T) {
		label := ParseLabel("3/8;MPK610;999999/2025")

		assert.True(t, label.HasHistorical)
		assert.Equal(t, 999999, label.HistoricalValue)
	})

	t.Run("unrecognised label", func(t *testing.T) {
		label := ParseLabel("brak danych")

		assert.Empty(t, label.CostCenter)
		assert.Empty(t, label.Group)
		assert.False(t, label.HasHistorical)
	})
}

func TestNormalizeVendor(t *testing.T) {
	assert.Equal(t, "acme sp. z o.o.", NormalizeVendor("  Acme Sp. z O.O. "))
	assert.Equal(t, "łódzka spółka", NormalizeVendor("ŁÓDZKA SPÓŁKA"))
	assert.Equal(t, "", NormalizeVendor("   "))
}
