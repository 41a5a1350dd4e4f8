package editor

import (
	"context"
	"fmt"
	"image"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/export"
)

// Export captures the committed project from surface at its export DPI. Any
// in-progress gesture is cancelled first so the capture shows settled state.
func (s *Session) Export(ctx context.Context, surface export.Surface) (image.Image, error) {
	s.CancelGesture()
	state := s.State()
	img, err := export.Render(ctx, surface, s, state)
	if err != nil {
		s.logger.Warn("export failed", "error", err)
		return nil, err
	}
	if s.journal != nil {
		size := img.Bounds().Size()
		s.journal.Record(ctx, activity.Entry{
			Type:          activity.TypeProjectExported,
			Summary:       fmt.Sprintf("exported %dx%d at %g dpi", size.X, size.Y, state.ExportDPI),
			HistoryCursor: s.History().Cursor,
		})
	}
	return img, nil
}
