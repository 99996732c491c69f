package jxl

import (
	"bytes"
	"testing"
)

func TestDecodeRejectsUnrecognizedInput(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}))
	if err == nil {
		t.Fatal("Decode accepted non-JPEG-XL input")
	}
}

func TestDecodeMetadataRejectsTruncatedBareSignature(t *testing.T) {
	_, err := DecodeMetadata(bytes.NewReader([]byte{0xFF, 0x0A}))
	if err == nil {
		t.Fatal("DecodeMetadata accepted a signature with no header bits")
	}
}

func TestDecodeConfigRejectsEmptyInput(t *testing.T) {
	_, err := DecodeConfig(bytes.NewReader(nil))
	if err == nil {
		t.Fatal("DecodeConfig accepted empty input")
	}
}

func TestExtractCodestreamPassesThroughBareSignature(t *testing.T) {
	in := []byte{0xFF, 0x0A, 0x00}
	out, err := extractCodestream(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("extractCodestream: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("extractCodestream = %v, want %v", out, in)
	}
}

func TestExtractCodestreamRejectsGarbage(t *testing.T) {
	_, err := extractCodestream(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	if err == nil {
		t.Fatal("extractCodestream accepted data with no recognized signature")
	}
}

func TestConfigCmsDefaultsToNullCms(t *testing.T) {
	var cfg *Config
	if cfg.cms() == nil {
		t.Fatal("nil Config.cms() returned nil, want NullCms")
	}
	if err := cfg.cms().Transform(nil, nil, 0, nil); err == nil {
		t.Fatal("NullCms.Transform unexpectedly succeeded")
	}
}
