package entity

import "math"

// BoundingBox прямоугольник найденного объекта на кадре
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Center возвращает координаты центра области
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Empty сообщает, что у области нет площади.
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Clamp обрезает область по границам кадра width x height.
func (b BoundingBox) Clamp(width, height int) BoundingBox {
	x0, y0 := clampInt(b.X, 0, width), clampInt(b.Y, 0, height)
	x1, y1 := clampInt(b.X+b.Width, 0, width), clampInt(b.Y+b.Height, 0, height)
	return BoundingBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// RawDetection один результат внешнего детектора, как он его вернул.
type RawDetection struct {
	ClassID    int
	Label      string
	Confidence float64
	Box        BoundingBox
}

// Detection выбранное яйцо на кадре вместе с вырезанной областью и размером.
type Detection struct {
	Label      string
	Confidence float64
	Box        BoundingBox
	Crop       Frame
	Size       SizeMeasurement
}

// SizeLabel категория размера яйца
type SizeLabel string

const (
	SizeSmall  SizeLabel = "Small"
	SizeMedium SizeLabel = "Medium"
	SizeLarge  SizeLabel = "Large"
)

// SizeMeasurement диагональ вырезанной области и её категория.
type SizeMeasurement struct {
	DiagonalPixels float64
	Label          SizeLabel
}

// SizeThresholds две возрастающие границы размера по диагонали в пикселях.
// Границы включаются в меньшую категорию.
type SizeThresholds struct {
	SmallMax  float64
	MediumMax float64
}

// DefaultSizeThresholds пороги, подобранные для камеры над лотком.
func DefaultSizeThresholds() SizeThresholds {
	return SizeThresholds{SmallMax: 300, MediumMax: 375}
}

// Classify относит диагональ к категории размера.
func (t SizeThresholds) Classify(diagonal float64) SizeLabel {
	switch {
	case diagonal <= t.SmallMax:
		return SizeSmall
	case diagonal <= t.MediumMax:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// Measure считает диагональ области width x height и её категорию.
func (t SizeThresholds) Measure(width, height int) SizeMeasurement {
	diagonal := math.Hypot(float64(width), float64(height))
	return SizeMeasurement{
		DiagonalPixels: Round2(diagonal),
		Label:          t.Classify(diagonal),
	}
}

// Round2 округляет до двух знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
