package http

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	clients "energia-cloud/internal/clients/domain"
	invoices "energia-cloud/internal/invoices/domain"
)

var ledgerHeader = []string{
	"id_fatura",
	"data_faturamento",
	"demanda_contratada_ponta_kw",
	"demanda_contratada_f_ponta_kw",
	"demanda_ponta_kw",
	"demanda_f_ponta_kw",
	"demanda_maxima_registrada_kw",
	"consumo_ponta_kwh",
	"consumo_ponta_vl",
	"consumo_fora_ponta_kwh",
	"consumo_fora_ponta_vl",
	"consumo_total_kwh",
	"valor_total_fatura",
	"valor_perdas_total",
}

// BuildLedgerXLSX renders a client and its invoices as a two-sheet workbook.
func BuildLedgerXLSX(client *clients.Client, list []invoices.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "cliente"
	ledgerSheet := "faturas"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ledgerSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Faturas do cliente")
	_ = f.SetCellValue(summarySheet, "A3", "id_cliente")
	_ = f.SetCellValue(summarySheet, "B3", client.ID)
	_ = f.SetCellValue(summarySheet, "A4", "cnpj")
	_ = f.SetCellValue(summarySheet, "B4", client.TaxID)
	_ = f.SetCellValue(summarySheet, "A5", "nome_empresa")
	_ = f.SetCellValue(summarySheet, "B5", client.CompanyName)
	_ = f.SetCellValue(summarySheet, "A6", "nome_da_unidade")
	_ = f.SetCellValue(summarySheet, "B6", deref(client.SiteName))
	_ = f.SetCellValue(summarySheet, "A7", "cidade")
	_ = f.SetCellValue(summarySheet, "B7", deref(client.City))
	_ = f.SetCellValue(summarySheet, "A8", "quantidade_faturas")
	_ = f.SetCellValue(summarySheet, "B8", len(list))

	total, losses := decimal.Zero, decimal.Zero
	for i, name := range ledgerHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(ledgerSheet, cell, name)
	}
	for i, inv := range list {
		row := i + 2
		values := []any{
			inv.ID,
			inv.BillingDate.Format(invoices.BillingTimeLayout),
			inv.ContractedPeakDemandKW,
			inv.ContractedOffPeakDemandKW,
			inv.PeakDemandKW,
			inv.OffPeakDemandKW,
			inv.MaxRecordedDemandKW,
			inv.PeakConsumptionKWh,
			inv.PeakConsumptionValue,
			inv.OffPeakConsumptionKWh,
			inv.OffPeakConsumptionValue,
			inv.TotalConsumptionKWh,
			inv.TotalValue,
			inv.LossValue,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(ledgerSheet, cell, value)
		}
		total = total.Add(decimal.NewFromFloat(inv.TotalValue))
		losses = losses.Add(decimal.NewFromFloat(inv.LossValue))
	}

	_ = f.SetCellValue(summarySheet, "A9", "valor_total_fatura")
	_ = f.SetCellValue(summarySheet, "B9", total.Round(2).InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A10", "valor_perdas_total")
	_ = f.SetCellValue(summarySheet, "B10", losses.Round(2).InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("ledger xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
