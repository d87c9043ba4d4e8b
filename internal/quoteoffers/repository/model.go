package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a quote offer.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusSentToClient    Status = "SENT_TO_CLIENT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusAccepted        Status = "ACCEPTED"
	StatusRejected        Status = "REJECTED"
	StatusExpired         Status = "EXPIRED"
)

// IsValid reports whether s is a known lifecycle status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSentToClient, StatusPendingApproval,
		StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// QuoteOffer is the aggregate root. The whole record is stored as a single
// document; nested structures have no independent lifecycle.
type QuoteOffer struct {
	ID                 string              `json:"id"`
	RequestQuoteID     string              `json:"requestQuoteId"`
	ClientNumber       string              `json:"clientNumber"`
	EmailUser          string              `json:"emailUser"`
	Comment            string              `json:"comment,omitempty"`
	Status             Status              `json:"status"`
	QuoteOfferNumber   int                 `json:"quoteOfferNumber"`
	SelectedOption     int                 `json:"selectedOption"`
	CreatedDate        time.Time           `json:"createdDate"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	ExpirationDate     *time.Time          `json:"expirationDate,omitempty"`
	ClientApproval     string              `json:"clientApproval,omitempty"`
	OptimizedDraftData *OptimizedDraftData `json:"optimizedDraftData,omitempty"`
	Options            []QuoteOption       `json:"options,omitempty"`
	Files              []AttachedFile      `json:"files,omitempty"`
}

// OptimizedDraftData holds the wizard working state for a draft.
type OptimizedDraftData struct {
	ResumeToken       string              `json:"resumeToken,omitempty"`
	Wizard            WizardMetadata      `json:"wizard"`
	Steps             WizardSteps         `json:"steps"`
	DraftOptions      []DraftOption       `json:"draftOptions,omitempty"`
	PreferredOptionID string              `json:"preferredOptionId,omitempty"`
	EnrichedData      *EnrichedWizardData `json:"enrichedData,omitempty"`
}

// WizardMetadata tracks progress through the seven-step wizard.
type WizardMetadata struct {
	CurrentStep  int       `json:"currentStep"`
	Status       string    `json:"status,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// WizardSteps carries one sub-record per wizard step.
type WizardSteps struct {
	Step1 *StepRouteCustomer     `json:"step1,omitempty"`
	Step2 *StepSelectedServices  `json:"step2,omitempty"`
	Step3 *StepContainers        `json:"step3,omitempty"`
	Step4 *StepHaulageSelection  `json:"step4,omitempty"`
	Step5 *StepSeafreightChoices `json:"step5,omitempty"`
	Step6 *StepMiscChoices       `json:"step6,omitempty"`
	Step7 *StepFinalization      `json:"step7,omitempty"`
}

type StepRouteCustomer struct {
	CompanyName  string `json:"companyName,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	CityFrom     string `json:"cityFrom,omitempty"`
	CountryFrom  string `json:"countryFrom,omitempty"`
	CityTo       string `json:"cityTo,omitempty"`
	CountryTo    string `json:"countryTo,omitempty"`
	ProductName  string `json:"productName,omitempty"`
	Incoterm     string `json:"incoterm,omitempty"`
	Comment      string `json:"comment,omitempty"`
}

type StepSelectedServices struct {
	SelectedServiceIDs []string `json:"selectedServiceIds,omitempty"`
}

type StepContainers struct {
	Containers []CargoItem `json:"containers,omitempty"`
}

type StepHaulageSelection struct {
	SelectedHaulageIDs []string `json:"selectedHaulageIds,omitempty"`
}

type StepSeafreightChoices struct {
	SelectedSeafreightIDs []string `json:"selectedSeafreightIds,omitempty"`
}

type StepMiscChoices struct {
	SelectedMiscIDs []string `json:"selectedMiscIds,omitempty"`
}

type StepFinalization struct {
	IsReadyToGenerate bool   `json:"isReadyToGenerate"`
	Remarks           string `json:"remarks,omitempty"`
}

// EnrichedWizardData carries the full line-item detail used for pricing.
type EnrichedWizardData struct {
	GeneralRequestInformation GeneralRequestInformation `json:"generalRequestInformation"`
	RoutingAndCargo           RoutingAndCargo           `json:"routingAndCargo"`
	Seafreights               []SeafreightData          `json:"seafreights,omitempty"`
	Haulages                  []HaulageData             `json:"haulages,omitempty"`
	Services                  []ServiceData             `json:"services,omitempty"`
}

type GeneralRequestInformation struct {
	Channel  string `json:"channel,omitempty"`
	Priority string `json:"priority,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type RoutingAndCargo struct {
	PortOfLoading     string      `json:"portOfLoading,omitempty"`
	PortOfDestination string      `json:"portOfDestination,omitempty"`
	Cargo             []CargoItem `json:"cargo,omitempty"`
}

type CargoItem struct {
	ContainerType    string          `json:"containerType"`
	Quantity         int             `json:"quantity"`
	GrossWeightKg    decimal.Decimal `json:"grossWeightKg"`
	VolumeM3         decimal.Decimal `json:"volumeM3"`
	Hazmat           bool            `json:"hazmat,omitempty"`
	GoodsDescription string          `json:"goodsDescription,omitempty"`
}

// SeafreightData is one carrier quotation with container rates and surcharges.
type SeafreightData struct {
	ID             string          `json:"id"`
	Carrier        string          `json:"carrier"`
	ServiceName    string          `json:"serviceName,omitempty"`
	ETD            *time.Time      `json:"etd,omitempty"`
	ETA            *time.Time      `json:"eta,omitempty"`
	Currency       string          `json:"currency"`
	RateValidUntil *time.Time      `json:"rateValidUntil,omitempty"`
	ContainerRates []ContainerRate `json:"containerRates,omitempty"`
	Surcharges     []SurchargeData `json:"surcharges,omitempty"`
	FreeTime       *FreeTimeData   `json:"freeTime,omitempty"`
}

type ContainerRate struct {
	ContainerType string          `json:"containerType"`
	BasePrice     decimal.Decimal `json:"basePrice"`
}

// SurchargeData is an additional charge atop a base freight rate.
// Calc is "flat" or "percent"; percent surcharges carry a Base reference.
type SurchargeData struct {
	Code      string          `json:"code"`
	Label     string          `json:"label,omitempty"`
	Calc      string          `json:"calc"`
	Base      string          `json:"base,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	Value     decimal.Decimal `json:"value"`
	Currency  string          `json:"currency,omitempty"`
	Taxable   bool            `json:"taxable,omitempty"`
	AppliesTo []string        `json:"appliesTo,omitempty"`
}

type FreeTimeData struct {
	OriginDays      int `json:"originDays"`
	DestinationDays int `json:"destinationDays"`
}

// HaulageData is one pre- or on-carriage quotation.
type HaulageData struct {
	ID       string           `json:"id"`
	Provider string           `json:"provider"`
	Scope    string           `json:"scope"`
	From     string           `json:"from,omitempty"`
	To       string           `json:"to,omitempty"`
	Currency string           `json:"currency"`
	Pricing  []HaulagePricing `json:"pricing,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

type HaulagePricing struct {
	ContainerType        string          `json:"containerType"`
	Unit                 string          `json:"unit,omitempty"`
	Price                decimal.Decimal `json:"price"`
	IncludedWaitingHours int             `json:"includedWaitingHours,omitempty"`
	ExtraHourPrice       decimal.Decimal `json:"extraHourPrice"`
}

// ServiceData is one ancillary service line.
type ServiceData struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Provider string           `json:"provider,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Price    decimal.Decimal  `json:"price"`
	Currency string           `json:"currency"`
	Taxable  bool             `json:"taxable"`
	TaxRate  *decimal.Decimal `json:"taxRate,omitempty"`
}

// DraftOption is a speculative priced option assembled during drafting.
type DraftOption struct {
	OptionID    string          `json:"optionId"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	MarginType  string          `json:"marginType,omitempty"`
	MarginValue decimal.Decimal `json:"marginValue"`
	Totals      OptionTotals    `json:"totals"`
}

// QuoteOption is the immutable snapshot of a DraftOption taken at finalization.
type QuoteOption struct {
	OptionID    string       `json:"optionId"`
	Description string       `json:"description,omitempty"`
	Totals      OptionTotals `json:"totals"`
}

// OptionTotals are the computed monetary totals for one option.
type OptionTotals struct {
	HaulageTotal       decimal.Decimal `json:"haulageTotal"`
	SeafreightTotal    decimal.Decimal `json:"seafreightTotal"`
	MiscellaneousTotal decimal.Decimal `json:"miscellaneousTotal"`
	TaxTotal           decimal.Decimal `json:"taxTotal"`
	GrandTotal         decimal.Decimal `json:"grandTotal"`
	Currency           string          `json:"currency"`
}

// AttachedFile is a file stored in object storage and linked to the offer.
type AttachedFile struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
