package geometry

import "math"

// PixelsPerFoot переводит координаты холста в футы.
const PixelsPerFoot = 10.0

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Distance евклидово расстояние в пикселях холста.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Feet длина отрезка a-b в футах.
func Feet(a, b Point) float64 {
	return Distance(a, b) / PixelsPerFoot
}

func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Snap45 поворачивает конец отрезка к ближайшему углу, кратному 45°,
// сохраняя длину.
func Snap45(start, end Point) Point {
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	angle = math.Round(angle/(math.Pi/4)) * (math.Pi / 4)
	d := Distance(start, end)
	return Point{
		X: start.X + math.Cos(angle)*d,
		Y: start.Y + math.Sin(angle)*d,
	}
}

// Direction единичный вектор от start к end. Для вырожденного отрезка ok=false.
func Direction(start, end Point) (Point, bool) {
	d := Distance(start, end)
	if d == 0 {
		return Point{}, false
	}
	return end.Sub(start).Scale(1 / d), true
}
