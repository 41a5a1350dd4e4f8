package project

// ZonePatch is a partial zone update. Nil fields are left untouched.
type ZonePatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	Fill         *string  `json:"fill,omitempty"`
	NoFill       *bool    `json:"noFill,omitempty"`
	Stroke       *string  `json:"stroke,omitempty"`
	StrokeWidth  *float64 `json:"strokeWidth,omitempty"`
	CornerRadius *float64 `json:"cornerRadius,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`

	BorderTop    *bool `json:"borderTop,omitempty"`
	BorderRight  *bool `json:"borderRight,omitempty"`
	BorderBottom *bool `json:"borderBottom,omitempty"`
	BorderLeft   *bool `json:"borderLeft,omitempty"`

	BorderShadow      *bool    `json:"borderShadow,omitempty"`
	BorderShadowX     *float64 `json:"borderShadowX,omitempty"`
	BorderShadowY     *float64 `json:"borderShadowY,omitempty"`
	BorderShadowBlur  *float64 `json:"borderShadowBlur,omitempty"`
	BorderShadowColor *string  `json:"borderShadowColor,omitempty"`

	Text            *string       `json:"text,omitempty"`
	FontSize        *float64      `json:"fontSize,omitempty"`
	FontFamily      *string       `json:"fontFamily,omitempty"`
	FontStyle       *string       `json:"fontStyle,omitempty"`
	TextColor       *string       `json:"textColor,omitempty"`
	TextStroke      *float64      `json:"textStroke,omitempty"`
	TextStrokeColor *string       `json:"textStrokeColor,omitempty"`
	TextShadow      *bool         `json:"textShadow,omitempty"`
	TextShadowX     *float64      `json:"textShadowX,omitempty"`
	TextShadowY     *float64      `json:"textShadowY,omitempty"`
	TextShadowBlur  *float64      `json:"textShadowBlur,omitempty"`
	TextShadowColor *string       `json:"textShadowColor,omitempty"`
	TextPosition    *TextPosition `json:"textPosition,omitempty"`
	TextDistance    *float64      `json:"textDistance,omitempty"`

	ZoneImage    *string   `json:"zoneImage,omitempty"`
	ImageOpacity *float64  `json:"imageOpacity,omitempty"`
	ImageFit     *ImageFit `json:"imageFit,omitempty"`
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T {
	return &v
}

// WithoutPosition returns a copy of p that leaves X and Y untouched.
func (p ZonePatch) WithoutPosition() ZonePatch {
	p.X = nil
	p.Y = nil
	return p
}

// Geometry returns a patch carrying only the geometry fields of z.
func Geometry(x, y, width, height float64) ZonePatch {
	return ZonePatch{X: &x, Y: &y, Width: &width, Height: &height}
}

// Apply returns z with every non-nil field of p applied.
func (p ZonePatch) Apply(z Zone) Zone {
	set(&z.X, p.X)
	set(&z.Y, p.Y)
	set(&z.Width, p.Width)
	set(&z.Height, p.Height)
	set(&z.Rotation, p.Rotation)

	set(&z.Fill, p.Fill)
	set(&z.NoFill, p.NoFill)
	set(&z.Stroke, p.Stroke)
	set(&z.StrokeWidth, p.StrokeWidth)
	set(&z.CornerRadius, p.CornerRadius)
	set(&z.Opacity, p.Opacity)

	set(&z.BorderTop, p.BorderTop)
	set(&z.BorderRight, p.BorderRight)
	set(&z.BorderBottom, p.BorderBottom)
	set(&z.BorderLeft, p.BorderLeft)

	set(&z.BorderShadow, p.BorderShadow)
	set(&z.BorderShadowX, p.BorderShadowX)
	set(&z.BorderShadowY, p.BorderShadowY)
	set(&z.BorderShadowBlur, p.BorderShadowBlur)
	set(&z.BorderShadowColor, p.BorderShadowColor)

	set(&z.Text, p.Text)
	set(&z.FontSize, p.FontSize)
	set(&z.FontFamily, p.FontFamily)
	set(&z.FontStyle, p.FontStyle)
	set(&z.TextColor, p.TextColor)
	set(&z.TextStroke, p.TextStroke)
	set(&z.TextStrokeColor, p.TextStrokeColor)
	set(&z.TextShadow, p.TextShadow)
	set(&z.TextShadowX, p.TextShadowX)
	set(&z.TextShadowY, p.TextShadowY)
	set(&z.TextShadowBlur, p.TextShadowBlur)
	set(&z.TextShadowColor, p.TextShadowColor)
	set(&z.TextPosition, p.TextPosition)
	set(&z.TextDistance, p.TextDistance)

	set(&z.ZoneImage, p.ZoneImage)
	set(&z.ImageOpacity, p.ImageOpacity)
	set(&z.ImageFit, p.ImageFit)
	return z
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
