package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"testbot_backend/internal/config"
	"testbot_backend/internal/model"
	"testbot_backend/internal/util"
	"testbot_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// bankEntry — формат записи банка вопросов на диске / в бакете:
// индексы правильных вариантов хранятся строкой "0,2".
type bankEntry struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswers string   `json:"correct_answers"`
}

// QuestionBank читает банк вопросов специализации из локального каталога
// или MinIO и кэширует разобранный банк в Redis.
type QuestionBank struct {
	mu    sync.RWMutex
	cfg   config.QuestionsConfig
	redis *redis.Client
	minio *minio.Client
}

func NewQuestionBank(cfg config.QuestionsConfig, rdb *redis.Client) (*QuestionBank, error) {
	b := &QuestionBank{cfg: cfg, redis: rdb}

	if cfg.Source == "minio" {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init minio client: %w", err)
		}
		b.minio = client
	}

	return b, nil
}

// Reload применяет новую конфигурацию источника (горячая перезагрузка).
// Клиент MinIO не пересоздаётся, меняются только путь/бакет/TTL.
func (b *QuestionBank) Reload(cfg config.QuestionsConfig) {
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
}

func (b *QuestionBank) config() config.QuestionsConfig {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg
}

// Load возвращает полный банк специализации. Отсутствующий банк — это
// пустой срез, не ошибка: решение принимает вызывающая сторона.
func (b *QuestionBank) Load(ctx context.Context, specialization string) ([]model.Question, error) {
	cfg := b.config()
	cacheKey := "qbank:" + specialization

	if b.redis != nil {
		if cached, err := b.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var qs []model.Question
			if err := json.Unmarshal(cached, &qs); err == nil {
				return qs, nil
			}
		}
	}

	raw, err := b.read(ctx, cfg, specialization)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var entries []bankEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse question bank %q: %w", specialization, err)
	}

	qs := make([]model.Question, 0, len(entries))
	for i, e := range entries {
		correct, err := util.ParseIndexList(e.CorrectAnswers)
		if err != nil || len(correct) == 0 || len(e.Options) == 0 || !indicesInRange(correct, len(e.Options)) {
			logger.Log.Warn("skipping malformed bank entry",
				zap.String("specialization", specialization),
				zap.Int("entry", i))
			continue
		}
		qs = append(qs, model.Question{
			Question:       e.Question,
			Options:        e.Options,
			CorrectAnswers: correct,
		})
	}

	if b.redis != nil && len(qs) > 0 {
		if payload, err := json.Marshal(qs); err == nil {
			// Кэш best-effort: недоступный Redis не мешает чтению банка
			b.redis.Set(ctx, cacheKey, payload, cfg.CacheTTL)
		}
	}

	return qs, nil
}

func (b *QuestionBank) read(ctx context.Context, cfg config.QuestionsConfig, specialization string) ([]byte, error) {
	name := specialization + ".json"

	if cfg.Source == "minio" && b.minio != nil {
		obj, err := b.minio.GetObject(ctx, cfg.MinioBucket, name, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		defer obj.Close()

		data, err := io.ReadAll(obj)
		if err != nil {
			resp := minio.ToErrorResponse(err)
			if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
				return nil, nil
			}
			return nil, err
		}
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(cfg.LocalPath, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func indicesInRange(indices []int, n int) bool {
	for _, v := range indices {
		if v < 0 || v >= n {
			return false
		}
	}
	return true
}
