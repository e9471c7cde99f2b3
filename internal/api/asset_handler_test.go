package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"campuslink/internal/config"
)

type fakeBannerStore struct {
	objects map[string][]byte
	err     error
}

func (s *fakeBannerStore) GetObjectBytes(_ context.Context, objectKey string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if data, ok := s.objects[objectKey]; ok {
		return data, nil
	}
	return nil, errors.New("NoSuchKey: object missing")
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func TestGetBanner_FromBucket(t *testing.T) {
	store := &fakeBannerStore{objects: map[string][]byte{
		"banner/top_banner.png": pngHeader,
	}}
	h := NewAssetHandler(store, config.BannerConfig{
		ObjectKey:     "banner/top_banner.png",
		FallbackColor: "#2c2c2c",
	}, nil)

	req := jsonRequest(t, http.MethodGet, "/v1/assets/banner", nil)
	c, w := newHandlerContext(req, 0)
	h.GetBanner(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["fallback"] != false {
		t.Fatalf("expected bucket image, got fallback: %s", w.Body.String())
	}
	image, _ := body["image"].(string)
	if !strings.HasPrefix(image, "data:image/png;base64,") {
		t.Fatalf("expected png data uri got %q", image)
	}
}

func TestGetBanner_FallsBackToLocalFile(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "banner.png")
	if err := os.WriteFile(localPath, pngHeader, 0o644); err != nil {
		t.Fatalf("write local banner: %v", err)
	}

	store := &fakeBannerStore{objects: map[string][]byte{}}
	h := NewAssetHandler(store, config.BannerConfig{
		ObjectKey:     "banner/top_banner.png",
		LocalPath:     localPath,
		FallbackColor: "#2c2c2c",
	}, nil)

	req := jsonRequest(t, http.MethodGet, "/v1/assets/banner", nil)
	c, w := newHandlerContext(req, 0)
	h.GetBanner(c)

	body := decodeBody(t, w)
	if body["fallback"] != false {
		t.Fatalf("expected local file image, got: %s", w.Body.String())
	}
}

func TestGetBanner_FallsBackToColor(t *testing.T) {
	h := NewAssetHandler(nil, config.BannerConfig{
		ObjectKey:     "banner/top_banner.png",
		LocalPath:     filepath.Join(t.TempDir(), "missing.png"),
		FallbackColor: "#2c2c2c",
	}, nil)

	req := jsonRequest(t, http.MethodGet, "/v1/assets/banner", nil)
	c, w := newHandlerContext(req, 0)
	h.GetBanner(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["fallback"] != true {
		t.Fatalf("expected fallback, got: %s", w.Body.String())
	}
	if body["color"] != "#2c2c2c" {
		t.Fatalf("expected fallback color got %v", body["color"])
	}
}
