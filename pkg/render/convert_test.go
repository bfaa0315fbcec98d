package render

import (
	"bytes"
	"context"
	"testing"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(square), 1)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestToPDFCanceled(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ToPDF(ctx, []byte(square)); err == nil {
		t.Error("canceled context should fail")
	}
}
