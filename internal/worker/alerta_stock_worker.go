package worker

// alerta_stock_worker.go
// Processes low stock alert jobs from QueueAlertasStock: every sale or manual
// adjustment that leaves an insumo at or below its minimum enqueues one of
// these. The worker emails the configured recipient.

import (
	"context"
	"encoding/json"
	"fmt"

	"comoencasa/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertasStock.
type AlertaStockPayload struct {
	InsumoID     string `json:"insumo_id"`
	Nombre       string `json:"nombre"`
	StockActual  string `json:"stock_actual"`
	StockMinimo  string `json:"stock_minimo"`
	UnidadMedida string `json:"unidad_medida"`
}

// AlertaStockWorker sends low stock alert emails via SMTP.
type AlertaStockWorker struct {
	mailer       *infra.Mailer
	destinatario string
}

func NewAlertaStockWorker(mailer *infra.Mailer, destinatario string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, destinatario: destinatario}
}

// Process sends the alert email; on failure the job goes to the DLQ.
func (w *AlertaStockWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_stock_worker: invalid payload")
		return
	}
	if w.destinatario == "" {
		log.Warn().Msg("alerta_stock_worker: no recipient configured — skipping")
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Nombre)
	body := fmt.Sprintf(
		"El insumo %s quedó en %s %s (mínimo configurado: %s %s).\nReponer stock.",
		payload.Nombre,
		payload.StockActual, payload.UnidadMedida,
		payload.StockMinimo, payload.UnidadMedida,
	)

	if err := w.mailer.SendAlerta(w.destinatario, subject, body, ""); err != nil {
		log.Error().Err(err).Str("insumo", payload.Nombre).Msg("alerta_stock_worker: failed to send email")
		SendToDLQ(ctx, rdb, QueueAlertasStock, "alerta_stock", raw, err.Error())
		return
	}
	log.Info().Str("insumo", payload.Nombre).Msg("alerta_stock_worker: alert sent")
}
