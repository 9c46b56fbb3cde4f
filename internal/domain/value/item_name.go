package value

import (
	"errors"
	"strings"
)

// ItemName is the market hash name of a listing: the opaque key the market
// uses to identify one distinct item (name plus wear qualifier).
type ItemName string

func (n ItemName) String() string {
	return string(n)
}

func ParseItemName(raw string) (ItemName, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("item name is empty")
	}

	return ItemName(raw), nil
}
