package colorconv

import "github.com/jxlcore/jxl/internal/xerr"

// RenderingIntent enumerates the ICC rendering intents a profile
// transform may request, per the image header's intent field.
type RenderingIntent uint8

const (
	IntentPerceptual RenderingIntent = iota
	IntentRelative
	IntentSaturation
	IntentAbsolute
)

//go:generate go run go.uber.org/mock/mockgen -destination=cms_mock.go -package=colorconv . ColorManagementSystem

// ColorManagementSystem transforms pixel data between two ICC profiles,
// per the reference decoder's ColorManagementSystem trait. Decoding a
// frame whose embedded profile isn't one of the built-in
// primaries/transfer-function combinations requires a CMS; this
// decoder core never bundles one, so callers inject their own (e.g. an
// lcms2 or moxcms-backed adapter) or accept NullCms's failure.
type ColorManagementSystem interface {
	Transform(from, to []byte, intent RenderingIntent, channels [][]float32) error
}

// NullCms is the zero-dependency default: it fails any ICC transform,
// matching the reference decoder's NullCms fallback used when no
// external CMS is wired in.
type NullCms struct{}

func (NullCms) Transform(from, to []byte, intent RenderingIntent, channels [][]float32) error {
	return xerr.New(xerr.CmsNotAvailable, "no color management system configured")
}
