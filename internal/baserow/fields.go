package baserow

import "encoding/json"

// SelectValue decodes a single-select field. Depending on the table
// configuration the store returns either the bare option string or an
// object carrying id/value/color; both shapes collapse to Value.
type SelectValue struct {
	Value string
}

func (s *SelectValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.Value = ""
		return nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.Value = plain
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Value = obj.Value
	return nil
}

// RowLink is one entry of a link-row field, pointing at a row in a
// related table.
type RowLink struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// LinkList decodes a link-row field. First returns the first linked row,
// covering the single-link case used throughout this schema.
type LinkList []RowLink

// First returns the first linked row, or a zero RowLink when empty.
func (l LinkList) First() RowLink {
	if len(l) == 0 {
		return RowLink{}
	}
	return l[0]
}
