package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"gorm.io/gorm/clause"

	"campuslink/internal/config"
	"campuslink/internal/database"
	"campuslink/internal/storage"
)

// 운영 도구. 학교 마스터 데이터 적재와 배너 자산 교체를 담당한다.
//   - -schools: JSON 파일(학교 이름 배열)을 읽어 이름 기준으로 upsert 한다.
//   - -banner: 로컬 이미지 파일을 버킷의 배너 오브젝트 키로 업로드한다.
func main() {
	seedPath := flag.String("schools", "", "학교 이름 JSON 배열 파일 경로")
	bannerPath := flag.String("banner", "", "업로드할 배너 이미지 파일 경로")
	flag.Parse()

	if *seedPath == "" && *bannerPath == "" {
		log.Fatal("usage: admin -schools <schools.json> | -banner <banner.png>")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	if *seedPath != "" {
		seedSchools(cfg, logger, *seedPath)
	}
	if *bannerPath != "" {
		uploadBanner(cfg, logger, *bannerPath)
	}
}

func seedSchools(cfg *config.Config, logger *slog.Logger, seedPath string) {
	data, err := os.ReadFile(seedPath)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		log.Fatalf("parse seed file: %v", err)
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	schools := make([]database.School, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		schools = append(schools, database.School{Name: name})
	}
	if len(schools) == 0 {
		log.Fatal("seed file contains no school names")
	}

	// 이미 있는 이름은 건드리지 않는다. 재실행해도 안전하다.
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&schools)
	if result.Error != nil {
		log.Fatalf("seed schools: %v", result.Error)
	}

	logger.Info("schools seeded",
		slog.Int("input", len(schools)),
		slog.Int64("inserted", result.RowsAffected),
	)
}

func uploadBanner(cfg *config.Config, logger *slog.Logger, bannerPath string) {
	data, err := os.ReadFile(bannerPath)
	if err != nil {
		log.Fatalf("read banner file: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	contentType := http.DetectContentType(data)
	if err := storageClient.PutObject(
		context.Background(),
		cfg.Banner.ObjectKey,
		bytes.NewReader(data),
		int64(len(data)),
		contentType,
	); err != nil {
		log.Fatalf("upload banner: %v", err)
	}

	logger.Info("banner uploaded",
		slog.String("object_key", cfg.Banner.ObjectKey),
		slog.String("content_type", contentType),
		slog.Int("size", len(data)),
	)
}
