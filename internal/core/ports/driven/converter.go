package driven

import (
	"context"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// Converter runs one conversion task. The actual conversion engines
// (PDF rasterization, Office/CAD conversion, video transcoding) are
// external collaborators behind this port.
type Converter interface {
	// Convert performs the task, reporting coarse progress through
	// report as a percentage in [0,100].
	Convert(ctx context.Context, task *domain.ConversionTask, report func(percentage int)) error
}
