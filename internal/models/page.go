package models

// Page selects a window of a list. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// LimitArg returns the LIMIT query argument; nil selects every row.
func (p Page) LimitArg() any {
	if p.Limit <= 0 {
		return nil
	}
	return p.Limit
}

// OffsetArg returns the OFFSET query argument.
func (p Page) OffsetArg() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}
