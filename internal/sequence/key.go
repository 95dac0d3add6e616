package sequence

// Key scopes an independent numbering counter. It is always built from its two
// parts so lookups never depend on how a caller formatted the string.
type Key struct {
	CostCenter string
	Group      string
}

// NewKey builds a sequence key
func NewKey(costCenter, group string) Key {
	return Key{CostCenter: costCenter, Group: group}
}

// String returns the derived "costCenter|group" form
func (k Key) String() string {
	return k.CostCenter + "|" + k.Group
}
