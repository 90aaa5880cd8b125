package worker

// reporte_worker.go
// Renders the arqueo (close) report PDF for a closed cash session.
// Enqueued fire-and-forget by CajaService.Cerrar; a failed render goes to
// the DLQ, it never affects the close itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"almapos/internal/infra"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReporteCierreWorker struct {
	cajaRepo    repository.CajaRepository
	storagePath string
}

func NewReporteCierreWorker(cajaRepo repository.CajaRepository, storagePath string) *ReporteCierreWorker {
	return &ReporteCierreWorker{cajaRepo: cajaRepo, storagePath: storagePath}
}

func (w *ReporteCierreWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job ReporteCierrePayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("reporte_cierre: payload invalido: %w", err)
	}

	sesionID, err := uuid.Parse(job.SesionCajaID)
	if err != nil {
		return fmt.Errorf("reporte_cierre: sesion_caja_id invalido: %w", err)
	}

	sesion, err := w.cajaRepo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return fmt.Errorf("reporte_cierre: sesion %s no encontrada: %w", sesionID, err)
	}
	movs, err := w.cajaRepo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return fmt.Errorf("reporte_cierre: movimientos de %s: %w", sesionID, err)
	}

	path, err := infra.GenerateCierrePDF(sesion, movs, w.storagePath)
	if err != nil {
		return err
	}

	log.Info().
		Str("sesion_caja_id", sesionID.String()).
		Str("path", path).
		Msg("reporte de cierre generado")
	return nil
}
