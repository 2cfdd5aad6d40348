package entity

// SellerGroup is a view-side aggregate grouping items that share a seller.
// It is rebuilt on every load and has no lifecycle of its own.
type SellerGroup struct {
	SellerID      string        `json:"seller_id"`
	SellerName    string        `json:"seller_name"`
	SellerContact SellerContact `json:"seller_contact"`
	Items         []*Item       `json:"items"`
}

// GroupItemsBySeller groups items by seller, preserving the order in which
// sellers first appear and the store's item ordering within each group.
func GroupItemsBySeller(items []*Item) []*SellerGroup {
	var groups []*SellerGroup
	index := make(map[string]*SellerGroup)

	for _, item := range items {
		group, ok := index[item.SellerID]
		if !ok {
			group = &SellerGroup{
				SellerID:      item.SellerID,
				SellerName:    item.SellerName,
				SellerContact: item.SellerContact,
			}
			index[item.SellerID] = group
			groups = append(groups, group)
		}
		group.Items = append(group.Items, item)
	}

	return groups
}

// Keys returns the item keys of every item in the group, for whole-group
// select toggles and bulk actions.
func (g *SellerGroup) Keys() []ItemKey {
	keys := make([]ItemKey, 0, len(g.Items))
	for _, item := range g.Items {
		keys = append(keys, item.Key)
	}

	return keys
}
