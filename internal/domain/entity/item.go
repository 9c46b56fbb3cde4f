package entity

// InventoryItem is one tradable stack held in an inventory. The same market
// hash name may appear in several stacks; the valuation service merges them.
type InventoryItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
