package server

import (
	"inv_checker/internal/domain/entity"
	"inv_checker/pkg/lox"
	"inv_checker/pkg/rest"
)

func newRESTReport(report entity.Report) rest.ValuationReport {
	return rest.ValuationReport{
		SteamID:     report.SteamID.String(),
		Currency:    report.Currency.String(),
		TotalValue:  report.TotalValue,
		GeneratedAt: report.GeneratedAt,
		Items:       lox.Map(report.Lines, newRESTItem),
		Unresolved:  report.Unresolved,
	}
}

func newRESTItem(line entity.ReportLine) rest.ValuationItem {
	return rest.ValuationItem{
		Name:      line.Name,
		UnitPrice: line.UnitPrice,
		Count:     line.Count,
		Subtotal:  line.Subtotal(),
		Stale:     line.Stale,
	}
}

func newRESTItemPrice(item entity.PricedItem) rest.ItemPrice {
	return rest.ItemPrice{
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  item.Quantity,
		FetchedAt: item.FetchedAt,
		Stale:     item.Stale,
	}
}
