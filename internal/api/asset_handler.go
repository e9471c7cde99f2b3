package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"campuslink/internal/api/middleware"
	"campuslink/internal/config"
	"campuslink/internal/storage"
)

// bannerStore 는 배너 자산을 읽는 데 필요한 만큼만 추린 인터페이스.
type bannerStore interface {
	GetObjectBytes(ctx context.Context, objectKey string) ([]byte, error)
}

// AssetHandler 는 메인 화면 배너 이미지를 내려준다.
// 버킷 → 로컬 파일 → 단색 대체의 순서로 폴백한다.
type AssetHandler struct {
	store  bannerStore
	cfg    config.BannerConfig
	logger *slog.Logger
}

// NewAssetHandler 는 자산 핸들러를 만든다. store 가 nil 이면 로컬 파일부터 시도한다.
func NewAssetHandler(store bannerStore, cfg config.BannerConfig, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{store: store, cfg: cfg, logger: logger}
}

// GetBanner 는 배너 이미지를 data URI 로 돌려준다.
// 이미지 출처가 전부 실패하면 fallback: true 와 대체 색상만 내려준다.
func (h *AssetHandler) GetBanner(c *gin.Context) {
	logger := h.loggerFromContext(c)

	if h.store != nil {
		data, err := h.store.GetObjectBytes(c.Request.Context(), h.cfg.ObjectKey)
		if err == nil {
			h.replyImage(c, data)
			return
		}
		if !storage.IsNoSuchKey(err) && !storage.IsNoSuchBucket(err) {
			logger.Warn("banner fetch from bucket failed", slog.Any("error", err))
		}
	}

	if h.cfg.LocalPath != "" {
		data, err := os.ReadFile(h.cfg.LocalPath)
		if err == nil {
			h.replyImage(c, data)
			return
		}
		if !os.IsNotExist(err) {
			logger.Warn("banner fetch from local file failed", slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"fallback": true,
		"color":    h.cfg.FallbackColor,
	})
}

func (h *AssetHandler) replyImage(c *gin.Context, data []byte) {
	contentType := http.DetectContentType(data)
	encoded := base64.StdEncoding.EncodeToString(data)
	c.JSON(http.StatusOK, gin.H{
		"fallback": false,
		"image":    fmt.Sprintf("data:%s;base64,%s", contentType, encoded),
	})
}

func (h *AssetHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
