package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// Inventory module.
	InventoryUnavailable failure.ErrorCode = "InventoryUnavailable" // private profile or empty response
	InvalidSteamID       failure.ErrorCode = "InvalidSteamID"
	InvalidItemName      failure.ErrorCode = "InvalidItemName"

	// Pricing module.
	PriceNotFound     failure.ErrorCode = "PriceNotFound" // listing exists but has no price (untradable)
	PriceUnavailable  failure.ErrorCode = "PriceUnavailable"
	UpstreamThrottled failure.ErrorCode = "UpstreamThrottled"

	// Valuation module.
	ValuationNotReady failure.ErrorCode = "ValuationNotReady" // no completed run yet
	RefreshInProgress failure.ErrorCode = "RefreshInProgress"
)
