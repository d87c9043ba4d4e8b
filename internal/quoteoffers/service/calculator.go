package service

import (
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/transport"

	"github.com/shopspring/decimal"
)

const defaultCurrency = "EUR"

// taxRate is the fixed tax rate applied to the taxable service base.
// No tax-rate table exists; the rate is a business constant.
var taxRate = decimal.RequireFromString("0.21")

// SeafreightTotal computes the total for one seafreight entry: the sum of all
// container-type base rates plus the sum of flat surcharge values, each
// surcharge counted once regardless of how many container types it applies to.
// Percent surcharges (Calc == "percent") are modeled but not supported by the
// calculation and are skipped.
func SeafreightTotal(sf repository.SeafreightData) decimal.Decimal {
	total := decimal.Zero
	for _, rate := range sf.ContainerRates {
		total = total.Add(rate.BasePrice)
	}
	for _, surcharge := range sf.Surcharges {
		if surcharge.Calc == "percent" {
			continue
		}
		total = total.Add(surcharge.Value)
	}
	return total
}

// HaulageTotal computes the total for one haulage entry: the sum of the
// per-container pricing entries' Price. Included waiting hours and extra-hour
// prices are carried in the model but not folded into the total.
func HaulageTotal(h repository.HaulageData) decimal.Decimal {
	total := decimal.Zero
	for _, pricing := range h.Pricing {
		total = total.Add(pricing.Price)
	}
	return total
}

// ServiceBases splits the ancillary service lines into a taxable and a
// non-taxable base.
func ServiceBases(services []repository.ServiceData) (taxable, nonTaxable decimal.Decimal) {
	taxable = decimal.Zero
	nonTaxable = decimal.Zero
	for _, svc := range services {
		if svc.Taxable {
			taxable = taxable.Add(svc.Price)
		} else {
			nonTaxable = nonTaxable.Add(svc.Price)
		}
	}
	return taxable, nonTaxable
}

// ComputeTotals derives the option totals from the enriched line items.
// Seafreight and haulage accumulate into the non-taxable base; only taxable
// service lines are taxed, at the fixed rate, rounded to 2 decimals.
func ComputeTotals(data *repository.EnrichedWizardData) repository.OptionTotals {
	seafreight := decimal.Zero
	haulage := decimal.Zero
	taxableBase := decimal.Zero
	miscNonTaxable := decimal.Zero

	if data != nil {
		for _, sf := range data.Seafreights {
			seafreight = seafreight.Add(SeafreightTotal(sf))
		}
		for _, h := range data.Haulages {
			haulage = haulage.Add(HaulageTotal(h))
		}
		taxableBase, miscNonTaxable = ServiceBases(data.Services)
	}

	tax := taxableBase.Mul(taxRate).Round(2)
	misc := taxableBase.Add(miscNonTaxable)
	grand := seafreight.Add(haulage).Add(misc).Add(tax)

	return repository.OptionTotals{
		HaulageTotal:       haulage,
		SeafreightTotal:    seafreight,
		MiscellaneousTotal: misc,
		TaxTotal:           tax,
		GrandTotal:         grand,
		Currency:           defaultCurrency,
	}
}

// PricingPreview builds the per-line pricing breakdown shown in the wizard.
// Every line carries quantity 1; aggregation happens at the totals level.
func PricingPreview(data *repository.EnrichedWizardData) []transport.PricingLine {
	if data == nil {
		return nil
	}

	lines := make([]transport.PricingLine, 0, len(data.Seafreights)+len(data.Haulages)+len(data.Services))

	for _, sf := range data.Seafreights {
		lines = append(lines, transport.PricingLine{
			Kind:        "seafreight",
			Description: sf.Carrier + " " + sf.ServiceName,
			UnitPrice:   SeafreightTotal(sf),
			Quantity:    1,
			Currency:    currencyOrDefault(sf.Currency),
		})
	}
	for _, h := range data.Haulages {
		lines = append(lines, transport.PricingLine{
			Kind:        "haulage",
			Description: h.Provider + " " + h.Scope,
			UnitPrice:   HaulageTotal(h),
			Quantity:    1,
			Currency:    currencyOrDefault(h.Currency),
		})
	}
	for _, svc := range data.Services {
		line := transport.PricingLine{
			Kind:        "service",
			Description: svc.Name,
			UnitPrice:   svc.Price,
			Quantity:    1,
			Taxable:     svc.Taxable,
			Currency:    currencyOrDefault(svc.Currency),
		}
		if svc.TaxRate != nil {
			line.TaxRate = svc.TaxRate
		}
		lines = append(lines, line)
	}

	return lines
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return currency
}
