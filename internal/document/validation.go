package document

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpggio/playmat/internal/domain/project"
)

var positive = []validation.Rule{validation.Required, validation.Min(0.0).Exclusive()}

var unitInterval = []validation.Rule{validation.Min(0.0), validation.Max(1.0)}

func validateSize(s *project.Size) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Width, positive...),
		validation.Field(&s.Height, positive...),
	)
}

func validateBackground(b *project.Background) error {
	return validation.ValidateStruct(b,
		validation.Field(&b.ScaleX, positive...),
		validation.Field(&b.ScaleY, positive...),
		validation.Field(&b.ImageWidth, positive...),
		validation.Field(&b.ImageHeight, positive...),
	)
}

func validateZone(z *project.Zone) error {
	return validation.ValidateStruct(z,
		validation.Field(&z.ID, validation.Required),
		validation.Field(&z.Width, positive...),
		validation.Field(&z.Height, positive...),
		validation.Field(&z.StrokeWidth, validation.Min(0.0)),
		validation.Field(&z.CornerRadius, validation.Min(0.0)),
		validation.Field(&z.Opacity, unitInterval...),
		validation.Field(&z.ImageOpacity, unitInterval...),
		validation.Field(&z.FontSize, validation.Min(0.0)),
		validation.Field(&z.TextPosition, validation.In(
			project.TextCenter, project.TextTop, project.TextBottom, project.TextTopOut, project.TextBottomOut)),
		validation.Field(&z.ImageFit, validation.In(project.FitStretch, project.FitWidth, project.FitHeight)),
	)
}
