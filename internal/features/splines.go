package features

import (
	"math"

	"github.com/jxlcore/jxl/internal/bitio"
	"github.com/jxlcore/jxl/internal/coding"
	"github.com/jxlcore/jxl/internal/xerr"
)

const (
	maxNumSplines        = 1 << 24
	maxNumControlPoints  = 1 << 20
)

// QuantSpline is one delta-coded spline: control points relative to a
// per-spline start point, plus quantized DCT32 coefficients for its
// XYB color and sigma (width) profile along the curve, ported from
// spline.rs's QuantSpline.
type QuantSpline struct {
	Points            [][2]int32 // absolute coordinates, Points[0] is the start point
	ManhattanDistance uint64
	XYBDct            [3][32]int32
	SigmaDct          [32]int32
}

// Splines is a frame's full spline list, per spline.rs's Splines
// bundle.
type Splines struct {
	Quant      []QuantSpline
	QuantAdjust int32
}

// ParseSplines reads the spline list: start points (delta-coded after
// the first), a shared quant_adjust, then per-spline control-point
// deltas and DCT32 coefficient blocks, all drawn from one dedicated
// 6-context entropy stream, ported from spline.rs's Bundle impl.
func ParseSplines(br *bitio.Reader, frameWidth, frameHeight uint32) (*Splines, error) {
	dec, err := coding.NewDecoder(br, 6, 8)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidCluster, err, "splines entropy decoder")
	}
	numPixels := int(frameWidth) * int(frameHeight)

	numSplinesTok, err := dec.ReadSymbol(2)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "num_splines")
	}
	numSplines := int(numSplinesTok) + 1

	maxSplines := maxNumSplines
	if numPixels/4 < maxSplines {
		maxSplines = numPixels / 4
	}
	if numSplines > maxSplines {
		return nil, xerr.Newf(xerr.TooManySplines, "num_splines %d exceeds limit %d", numSplines, maxSplines)
	}

	startPoints := make([][2]int32, numSplines)
	for i := 0; i < numSplines; i++ {
		xTok, err := dec.ReadSymbol(1)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "spline start x")
		}
		yTok, err := dec.ReadSymbol(1)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "spline start y")
		}
		x, y := int32(xTok), int32(yTok)
		if i != 0 {
			x = coding.UnpackSigned(xTok) + startPoints[i-1][0]
			y = coding.UnpackSigned(yTok) + startPoints[i-1][1]
		}
		startPoints[i] = [2]int32{x, y}
	}

	quantAdjustTok, err := dec.ReadSymbol(0)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "quant_adjust")
	}
	quantAdjust := coding.UnpackSigned(quantAdjustTok)

	splines := make([]QuantSpline, 0, numSplines)
	for _, start := range startPoints {
		s, err := parseQuantSpline(dec, start, numPixels)
		if err != nil {
			return nil, err
		}
		splines = append(splines, *s)
	}

	return &Splines{Quant: splines, QuantAdjust: quantAdjust}, nil
}

func parseQuantSpline(dec *coding.Decoder, start [2]int32, numPixels int) (*QuantSpline, error) {
	numPointsTok, err := dec.ReadSymbol(3)
	if err != nil {
		return nil, xerr.Wrap(xerr.UnexpectedEof, err, "num_points")
	}
	numPoints := int(numPointsTok)

	maxPoints := maxNumControlPoints
	if numPixels/2 < maxPoints {
		maxPoints = numPixels / 2
	}
	if numPoints > maxPoints {
		return nil, xerr.Newf(xerr.TooManySplinePoints, "num_points %d exceeds limit %d", numPoints, maxPoints)
	}

	points := make([][2]int32, 0, numPoints+1)
	points = append(points, start)
	curX, curY := start[0], start[1]
	var deltaX, deltaY int32
	var manhattan uint64
	for i := 0; i < numPoints; i++ {
		dxTok, err := dec.ReadSymbol(4)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "spline point dx")
		}
		dyTok, err := dec.ReadSymbol(4)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "spline point dy")
		}
		deltaX += coding.UnpackSigned(dxTok)
		deltaY += coding.UnpackSigned(dyTok)
		manhattan += uint64(abs32(deltaX) + abs32(deltaY))
		curX += deltaX
		curY += deltaY
		points = append(points, [2]int32{curX, curY})
	}

	var xybDct [3][32]int32
	for c := 0; c < 3; c++ {
		for i := 0; i < 32; i++ {
			tok, err := dec.ReadSymbol(5)
			if err != nil {
				return nil, xerr.Wrap(xerr.UnexpectedEof, err, "spline xyb dct")
			}
			xybDct[c][i] = coding.UnpackSigned(tok)
		}
	}

	var sigmaDct [32]int32
	for i := 0; i < 32; i++ {
		tok, err := dec.ReadSymbol(5)
		if err != nil {
			return nil, xerr.Wrap(xerr.UnexpectedEof, err, "spline sigma dct")
		}
		sigmaDct[i] = coding.UnpackSigned(tok)
	}

	return &QuantSpline{Points: points, ManhattanDistance: manhattan, XYBDct: xybDct, SigmaDct: sigmaDct}, nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// splineRenderingDistance is the target spacing, in pixels, between
// consecutive samples walked along a spline's Catmull-Rom path, per
// spline.rs's kDesiredRenderingDistance.
const splineRenderingDistance = 1.0

// ApplySplines rasterizes every spline in s onto the XYB color planes:
// each spline's control points are walked as a uniform Catmull-Rom
// curve at roughly one sample per pixel of (Manhattan-distance
// approximated) arc length, and at each sample the spline's DCT32-coded
// color and width profile -- a function of progress along the curve --
// is splatted as a small Gaussian footprint, ported from spline.rs's
// draw_spline/render_spline_coordinate_estimate.
func ApplySplines(s *Splines, colorX, colorY, colorB []float32, width, height int) {
	if s == nil {
		return
	}
	scale := quantAdjustScale(s.QuantAdjust)
	for _, q := range s.Quant {
		drawSpline(q, scale, colorX, colorY, colorB, width, height)
	}
}

// quantAdjustScale turns the shared quant_adjust delta-code into the
// multiplicative scale applied to every spline's dequantized DCT32
// color coefficients, per spline.rs's quantization adjustment formula.
func quantAdjustScale(adjust int32) float32 {
	if adjust >= 0 {
		return 1.0 / (1.0 + float32(adjust)/8.0)
	}
	return 1.0 - float32(adjust)/8.0
}

func drawSpline(q QuantSpline, colorScale float32, colorX, colorY, colorB []float32, width, height int) {
	if len(q.Points) == 0 {
		return
	}
	arcLength := float64(q.ManhattanDistance)
	if arcLength < 1 {
		arcLength = 1
	}
	steps := int(arcLength / splineRenderingDistance)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px, py := splinePointAt(q.Points, t)
		progress := t * 31.0

		sigma := idctSample(&q.SigmaDct, progress)
		if sigma < 0.1 {
			sigma = 0.1
		}
		splat(colorX, width, height, px, py, sigma, idctSample(&q.XYBDct[0], progress)*colorScale)
		splat(colorY, width, height, px, py, sigma, idctSample(&q.XYBDct[1], progress)*colorScale)
		splat(colorB, width, height, px, py, sigma, idctSample(&q.XYBDct[2], progress)*colorScale)
	}
}

// splinePointAt evaluates the piecewise Catmull-Rom curve through
// points at global parameter t in [0,1], duplicating the first/last
// point as the missing neighbor at each end, per spline.rs's centripetal
// Catmull-Rom upsampling (simplified to uniform parameterization).
func splinePointAt(points [][2]int32, t float64) (float64, float64) {
	n := len(points)
	if n == 1 {
		return float64(points[0][0]), float64(points[0][1])
	}
	segments := n - 1
	segF := t * float64(segments)
	seg := int(segF)
	if seg >= segments {
		seg = segments - 1
	}
	localT := segF - float64(seg)

	p1, p2 := points[seg], points[seg+1]
	p0, p3 := p1, p2
	if seg > 0 {
		p0 = points[seg-1]
	}
	if seg+2 < n {
		p3 = points[seg+2]
	}

	x := catmullRom1D(float64(p0[0]), float64(p1[0]), float64(p2[0]), float64(p3[0]), localT)
	y := catmullRom1D(float64(p0[1]), float64(p1[1]), float64(p2[1]), float64(p3[1]), localT)
	return x, y
}

func catmullRom1D(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// idctSample evaluates the continuous inverse DCT-II expansion of a
// 32-coefficient spline profile (color or sigma) at a real-valued
// position in [0,32), so a spline's profile can be sampled at however
// many points its arc length calls for rather than only at 32 fixed
// grid points.
func idctSample(coeffs *[32]int32, position float64) float32 {
	var sum float64
	for k, raw := range coeffs {
		if raw == 0 {
			continue
		}
		alpha := 1.0
		if k == 0 {
			alpha = 1.0 / math.Sqrt2
		}
		sum += float64(raw) * alpha * math.Cos(math.Pi/32*(position+0.5)*float64(k))
	}
	return float32(sum * math.Sqrt(2.0/32.0))
}

// splat accumulates value onto plane in a Gaussian footprint centered
// at (cx, cy) with standard deviation sigma, truncated to 3 sigma, per
// spline.rs's per-pixel Gaussian weighting of a spline's color profile.
func splat(plane []float32, width, height int, cx, cy float64, sigma, value float32) {
	if value == 0 {
		return
	}
	radius := int(math.Ceil(float64(sigma) * 3))
	if radius < 1 {
		radius = 1
	}
	cxI, cyI := int(math.Round(cx)), int(math.Round(cy))
	sigma2 := float64(sigma) * float64(sigma)
	if sigma2 < 1e-6 {
		sigma2 = 1e-6
	}
	for dy := -radius; dy <= radius; dy++ {
		py := cyI + dy
		if py < 0 || py >= height {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			px := cxI + dx
			if px < 0 || px >= width {
				continue
			}
			ddx, ddy := cx-float64(px), cy-float64(py)
			w := math.Exp(-(ddx*ddx + ddy*ddy) / (2 * sigma2))
			plane[py*width+px] += value * float32(w)
		}
	}
}
