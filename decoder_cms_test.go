package jxl

import (
	"errors"
	"testing"

	"github.com/jxlcore/jxl/internal/colorconv"
	"github.com/jxlcore/jxl/internal/render"
	"go.uber.org/mock/gomock"
)

func TestApplyCmsInvokesConfiguredTransform(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := colorconv.NewMockColorManagementSystem(ctrl)
	canvas := render.NewCanvas(1, 1, 0)
	canvas.Color[0][0] = 0.5

	icc := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	mock.EXPECT().
		Transform(icc, nil, colorconv.IntentRelative, gomock.Any()).
		Return(nil)

	if err := applyCms(mock, canvas, icc); err != nil {
		t.Fatalf("applyCms: %v", err)
	}
}

func TestApplyCmsPropagatesTransformError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := colorconv.NewMockColorManagementSystem(ctrl)
	canvas := render.NewCanvas(1, 1, 0)

	wantErr := errors.New("profile transform failed")
	mock.EXPECT().
		Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(wantErr)

	if err := applyCms(mock, canvas, []byte{0x01}); !errors.Is(err, wantErr) {
		t.Fatalf("applyCms error = %v, want %v", err, wantErr)
	}
}
