package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Dispatcher decides which conversion tasks apply to a committed
// document version and submits them to the external queue. Enqueue
// failures are reported to the caller and never retried here; the
// orchestrator's isolation boundary absorbs them.
type Dispatcher struct {
	queue  driven.ConversionQueue
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(queue driven.ConversionQueue, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{queue: queue, logger: logger}
}

// QueueForPlan maps a team's subscription tier to its conversion queue.
func QueueForPlan(plan string) string {
	switch strings.ToLower(plan) {
	case "business", "datarooms":
		return "conversion:business"
	case "pro", "starter":
		return "conversion:starter"
	default:
		return "conversion:free"
	}
}

// TasksForVersion selects the conversion tasks for a committed version:
//
//	slides + Keynote MIME  -> Keynote-to-PDF
//	docs or slides         -> Office-to-PDF
//	cad                    -> CAD-to-PDF
//	video, non-mp4 video/* -> video optimization
//	pdf                    -> PDF-to-image pagination
//	everything else        -> none
func TasksForVersion(doc *domain.Document, v *domain.DocumentVersion) []*domain.ConversionTask {
	switch doc.Type {
	case domain.TypeSlides:
		if domain.IsKeynoteContentType(v.ContentType) {
			return []*domain.ConversionTask{
				domain.NewConversionTask(domain.TaskKindKeynoteToPDF, doc.TeamID, doc.ID, v.ID, nil),
			}
		}
		return []*domain.ConversionTask{
			domain.NewConversionTask(domain.TaskKindOfficeToPDF, doc.TeamID, doc.ID, v.ID, nil),
		}
	case domain.TypeDocs:
		return []*domain.ConversionTask{
			domain.NewConversionTask(domain.TaskKindOfficeToPDF, doc.TeamID, doc.ID, v.ID, nil),
		}
	case domain.TypeCAD:
		return []*domain.ConversionTask{
			domain.NewConversionTask(domain.TaskKindCADToPDF, doc.TeamID, doc.ID, v.ID, nil),
		}
	case domain.TypeVideo:
		ct := strings.ToLower(v.ContentType)
		if ct != "video/mp4" && strings.HasPrefix(ct, "video/") {
			return []*domain.ConversionTask{
				domain.NewConversionTask(domain.TaskKindVideoOptimize, doc.TeamID, doc.ID, v.ID, map[string]string{
					"videoUrl": v.Key,
					"docId":    doc.ID,
					"fileSize": strconv.FormatInt(v.FileSize, 10),
				}),
			}
		}
		return nil
	case domain.TypePDF:
		return []*domain.ConversionTask{
			domain.NewConversionTask(domain.TaskKindPDFToImage, doc.TeamID, doc.ID, v.ID, nil),
		}
	}
	return nil
}

// DispatchForVersion submits every applicable conversion task on the
// team's queue with a team-scoped concurrency key.
func (d *Dispatcher) DispatchForVersion(ctx context.Context, doc *domain.Document, v *domain.DocumentVersion, plan string) error {
	for _, task := range TasksForVersion(doc, v) {
		opts := driven.TriggerOptions{
			IdempotencyKey: task.IdempotencyKey(),
			Tags:           task.Tags(),
			Queue:          QueueForPlan(plan),
			ConcurrencyKey: doc.TeamID,
		}
		if err := d.queue.Trigger(ctx, task, opts); err != nil {
			return fmt.Errorf("trigger %s: %w", task.Kind, err)
		}
		d.logger.Info("conversion task dispatched",
			"kind", task.Kind,
			"queue", opts.Queue,
			"team_id", doc.TeamID,
			"document_id", doc.ID,
			"document_version_id", v.ID,
		)
	}
	return nil
}
