package value

import (
	"fmt"
	"strconv"
)

const steamIDLength = 17

// SteamID is a 64-bit Steam account identifier in its decimal form.
type SteamID string

func (s SteamID) String() string {
	return string(s)
}

func ParseSteamID(raw string) (SteamID, error) {
	if len(raw) != steamIDLength {
		return "", fmt.Errorf("steam id must be %d digits, got %d", steamIDLength, len(raw))
	}

	if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
		return "", fmt.Errorf("steam id is not numeric: %w", err)
	}

	return SteamID(raw), nil
}
