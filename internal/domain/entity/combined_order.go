package entity

// OrderCondition is the single classification an order carries for display and
// precondition checks. The constants are ordered by priority: an incomplete
// order is always labeled incomplete, even when it also needs completion or
// has partial-delivery history.
type OrderCondition string

const (
	ConditionIncomplete      OrderCondition = "incomplete"
	ConditionNeedsCompletion OrderCondition = "needs_completion"
	ConditionPartialHistory  OrderCondition = "partial_history"
	ConditionNormal          OrderCondition = "normal"
)

// CombinedOrder joins an order header with its items. It is always rebuilt
// from the store; it is never cached across mutating operations.
type CombinedOrder struct {
	Order *Order  `json:"order"`
	Items []*Item `json:"items"`
}

// IsIncomplete reports whether the order is missing items: the aggregate says
// not all gathered and at least one item really is short of the warehouse.
func (c *CombinedOrder) IsIncomplete() bool {
	if c.Order.AllItemsGathered {
		return false
	}
	for _, item := range c.Items {
		if !item.AtWarehouse() {
			return true
		}
	}

	return false
}

// NeedsCompletion reports whether the order came back from a partial delivery
// and is waiting for a fresh distributor: it has a delivery on record but the
// distributor relationship for that batch was closed.
func (c *CombinedOrder) NeedsCompletion() bool {
	return c.Order.DeliveredAt != nil && c.Order.DistributedBy == ""
}

// HasPartialDeliveryHistory reports whether items kept arriving at the
// warehouse after a delivery was already recorded.
func (c *CombinedOrder) HasPartialDeliveryHistory() bool {
	if c.Order.DeliveredAt == nil {
		return false
	}
	for _, item := range c.Items {
		if item.ArrivedAt != nil && item.ArrivedAt.After(*c.Order.DeliveredAt) {
			return true
		}
	}

	return false
}

// Condition classifies the order with the explicit display priority:
// incomplete > needs-completion > partial-history > normal.
func (c *CombinedOrder) Condition() OrderCondition {
	switch {
	case c.IsIncomplete():
		return ConditionIncomplete
	case c.NeedsCompletion():
		return ConditionNeedsCompletion
	case c.HasPartialDeliveryHistory():
		return ConditionPartialHistory
	default:
		return ConditionNormal
	}
}

// StagedItems returns the items currently at the warehouse, i.e. the subset
// that would actually ship if a delivery were recorded now.
func (c *CombinedOrder) StagedItems() []*Item {
	var staged []*Item
	for _, item := range c.Items {
		if item.AtWarehouse() {
			staged = append(staged, item)
		}
	}

	return staged
}

// MissingItems returns the items short of the warehouse.
func (c *CombinedOrder) MissingItems() []*Item {
	var missing []*Item
	for _, item := range c.Items {
		if !item.AtWarehouse() {
			missing = append(missing, item)
		}
	}

	return missing
}

// IsPartialDelivery reports, for archive display, whether some but not all of
// the order's items have been physically delivered.
func (c *CombinedOrder) IsPartialDelivery() bool {
	if len(c.Items) == 0 {
		return false
	}
	delivered := 0
	for _, item := range c.Items {
		if item.DeliveredInPartial {
			delivered++
		}
	}

	return delivered > 0 && delivered < len(c.Items)
}
