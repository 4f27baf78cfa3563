package sidebar

import (
	"fmt"

	"github.com/evolute-studio/mage-duel-docs/internal/validate"
)

// Validate checks the structure of every sidebar. It does not check that doc
// ids resolve; that needs the content index.
func (s Sidebars) Validate() error {
	v := validate.New()
	if len(s) == 0 {
		v.AddError("sidebars", "no sidebar declared", nil)
	}
	seen := make(map[string]bool, len(s))
	for i, sb := range s {
		field := sb.ID
		if sb.ID == "" {
			field = fmt.Sprintf("sidebars[%d]", i)
			v.AddError(field, "sidebar id must not be empty", sb.ID)
		}
		if seen[sb.ID] {
			v.AddError(field, "duplicate sidebar id", sb.ID)
		}
		seen[sb.ID] = true

		if len(sb.Items) == 0 {
			v.AddError(field, "sidebar has no items", sb.ID)
		}
		validateItems(v, field, sb.Items)
	}
	return v.Err()
}

func validateItems(v *validate.Validator, field string, items []Item) {
	for i, it := range items {
		f := fmt.Sprintf("%s[%d]", field, i)
		switch it.Type {
		case TypeDoc:
			v.Required(f+".id", it.ID)
			if len(it.Items) > 0 {
				v.AddError(f+".items", "a doc item cannot hold items", it.ID)
			}
		case TypeCategory:
			v.Required(f+".label", it.Label)
			if it.Link != nil {
				if it.Link.Type != "" && it.Link.Type != string(TypeDoc) {
					v.AddError(f+".link.type", fmt.Sprintf("unsupported category link type %q", it.Link.Type), it.Link.Type)
				}
				v.Required(f+".link.id", it.Link.ID)
			}
			if len(it.Items) == 0 {
				v.AddError(f+".items", fmt.Sprintf("category %q is empty", it.Label), it.Label)
			}
			validateItems(v, f+".items", it.Items)
		default:
			v.AddError(f+".type", fmt.Sprintf("unknown item type %q", it.Type), it.Type)
		}
	}
}
