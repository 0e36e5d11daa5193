package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const countTimeout = 2 * time.Second

func registerRowGauges(clientRows, invoiceRows RowCounter, logger *zap.Logger) {
	if clientRows != nil {
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "clients_stored",
				Help: "Stored client records",
			},
			func() float64 {
				return queryCount(clientRows, logger, "clientes")
			},
		))
	}
	if invoiceRows != nil {
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "invoices_stored",
				Help: "Stored invoice records",
			},
			func() float64 {
				return queryCount(invoiceRows, logger, "faturas")
			},
		))
	}
}

func queryCount(counter RowCounter, logger *zap.Logger, table string) float64 {
	ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
	defer cancel()

	count, err := counter.Count(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics count failed", zap.String("table", table), zap.Error(err))
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
