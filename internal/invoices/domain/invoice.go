package invoices

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"energia-cloud/internal/validation"
)

// Invoice is one monthly billing record of a client (fatura).
type Invoice struct {
	ID                        int64       `json:"id_fatura"`
	ClientID                  int64       `json:"id_cliente"`
	BillingDate               BillingTime `json:"data_faturamento"`
	ContractedPeakDemandKW    float64     `json:"demanda_contratada_ponta_kw"`
	ContractedOffPeakDemandKW float64     `json:"demanda_contratada_f_ponta_kw"`
	PeakDemandKW              float64     `json:"demanda_ponta_kw"`
	OffPeakDemandKW           float64     `json:"demanda_f_ponta_kw"`
	MaxRecordedDemandKW       float64     `json:"demanda_maxima_registrada_kw"`
	PeakConsumptionKWh        float64     `json:"consumo_ponta_kwh"`
	PeakConsumptionValue      float64     `json:"consumo_ponta_vl"`
	OffPeakConsumptionKWh     float64     `json:"consumo_fora_ponta_kwh"`
	OffPeakConsumptionValue   float64     `json:"consumo_fora_ponta_vl"`
	TotalConsumptionKWh       float64     `json:"consumo_total_kwh"`
	TotalValue                float64     `json:"valor_total_fatura"`
	LossValue                 float64     `json:"valor_perdas_total"`
}

// Draft is an invoice as submitted. Nil numeric fields default to zero.
type Draft struct {
	BillingDate               time.Time
	ContractedPeakDemandKW    *float64
	ContractedOffPeakDemandKW *float64
	PeakDemandKW              *float64
	OffPeakDemandKW           *float64
	MaxRecordedDemandKW       *float64
	PeakConsumptionKWh        *float64
	PeakConsumptionValue      *float64
	OffPeakConsumptionKWh     *float64
	OffPeakConsumptionValue   *float64
	TotalConsumptionKWh       *float64
	TotalValue                *float64
	LossValue                 *float64
}

// Validate checks the fields that have no default.
func (d Draft) Validate() error {
	var errs validation.Errors
	if d.BillingDate.IsZero() {
		errs = errs.Add("data_faturamento", "campo obrigatório")
	}
	if d.TotalValue == nil {
		errs = errs.Add("valor_total_fatura", "campo obrigatório")
	}
	return errs.OrNil()
}

// Build turns the draft into an invoice for clientID.
// Values are rounded to cents; the total consumption is derived from peak and
// off-peak consumption when it was not given.
func (d Draft) Build(clientID int64) Invoice {
	inv := Invoice{
		ClientID:                  clientID,
		BillingDate:               BillingTime{Time: d.BillingDate},
		ContractedPeakDemandKW:    round(d.ContractedPeakDemandKW),
		ContractedOffPeakDemandKW: round(d.ContractedOffPeakDemandKW),
		PeakDemandKW:              round(d.PeakDemandKW),
		OffPeakDemandKW:           round(d.OffPeakDemandKW),
		MaxRecordedDemandKW:       round(d.MaxRecordedDemandKW),
		PeakConsumptionKWh:        round(d.PeakConsumptionKWh),
		PeakConsumptionValue:      round(d.PeakConsumptionValue),
		OffPeakConsumptionKWh:     round(d.OffPeakConsumptionKWh),
		OffPeakConsumptionValue:   round(d.OffPeakConsumptionValue),
		TotalConsumptionKWh:       round(d.TotalConsumptionKWh),
		TotalValue:                round(d.TotalValue),
		LossValue:                 round(d.LossValue),
	}
	if inv.TotalConsumptionKWh == 0 {
		inv.TotalConsumptionKWh = decimal.NewFromFloat(inv.PeakConsumptionKWh).
			Add(decimal.NewFromFloat(inv.OffPeakConsumptionKWh)).
			Round(2).
			InexactFloat64()
	}
	return inv
}

func round(value *float64) float64 {
	if value == nil {
		return 0
	}
	return decimal.NewFromFloat(*value).Round(2).InexactFloat64()
}

// Repository manages invoice persistence. Invoices are append-only.
type Repository interface {
	Create(ctx context.Context, invoice Invoice) (*Invoice, error)
	ListByClient(ctx context.Context, clientID int64) ([]Invoice, error)
	ListByClients(ctx context.Context, clientIDs []int64) (map[int64][]Invoice, error)
}
