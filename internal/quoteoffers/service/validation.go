package service

import (
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/transport"
)

// Validation messages surfaced to the wizard UI.
const (
	msgDatesInconsistent = "La date de création est postérieure à la dernière mise à jour."
	msgCGVMissing        = "CGV non acceptées (signature/validation requise avant émission du devis)."
	msgRatesOK           = "Un seul rate défini par type de conteneur pour chaque seafreight."
	msgNoOptions         = "Aucune option définie"
	msgFreeTimeDest      = "Free time destination limité à 5-7 jours selon l'option."
)

// ValidateDraft runs the advisory validation checklist over a draft.
// The report never blocks an operation; finalization applies its own guards.
//
// The checklist is intentionally shallow: surcharges_validity has no real
// rule behind it yet, and cgv_present fails until a CGV-acceptance flag is
// persisted on the aggregate.
func ValidateDraft(offer *repository.QuoteOffer) transport.ValidationReport {
	report := transport.ValidationReport{
		Checks:   make([]transport.ValidationCheck, 0, 4),
		Warnings: make([]transport.ValidationWarning, 0, 1),
	}

	datesOK := !offer.CreatedDate.After(offer.UpdatedAt)
	report.Checks = append(report.Checks, check("dates_consistency", datesOK, msgDatesInconsistent))

	report.Checks = append(report.Checks, transport.ValidationCheck{
		Name: "surcharges_validity",
		Ok:   true,
	})

	report.Checks = append(report.Checks, transport.ValidationCheck{
		Name:    "cgv_present",
		Ok:      false,
		Message: msgCGVMissing,
	})

	hasOptions := offer.OptimizedDraftData != nil && len(offer.OptimizedDraftData.DraftOptions) > 0
	ratesCheck := transport.ValidationCheck{Name: "rates_per_container", Ok: hasOptions}
	if hasOptions {
		ratesCheck.Message = msgRatesOK
	} else {
		ratesCheck.Message = msgNoOptions
	}
	report.Checks = append(report.Checks, ratesCheck)

	report.Warnings = append(report.Warnings, transport.ValidationWarning{
		Code:    "FREE_TIME_DEST",
		Message: msgFreeTimeDest,
	})

	return report
}

func check(name string, ok bool, failMessage string) transport.ValidationCheck {
	c := transport.ValidationCheck{Name: name, Ok: ok}
	if !ok {
		c.Message = failMessage
	}
	return c
}
