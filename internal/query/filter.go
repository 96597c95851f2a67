package query

// VideoFilter narrows the public video feed. Zero values mean "no
// restriction" on that criterion.
type VideoFilter struct {
	TextQuery string
	OwnerID   string
}

// Conditions compiles the filter into match stages. A non-empty OwnerID must
// be well formed; an empty one is simply omitted.
func (f VideoFilter) Conditions() ([]Condition, error) {
	conds := []Condition{TextSearch(f.TextQuery), PublishedOnly()}
	if f.OwnerID != "" {
		ownerID, err := ParseID(f.OwnerID)
		if err != nil {
			return nil, err
		}
		conds = append(conds, OwnedBy(ownerID))
	}
	return conds, nil
}
