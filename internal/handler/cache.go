package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
)

// analysisCacheKey 引擎是确定性的，相同的时间轴和参数必然得到相同的结果
func analysisCacheKey(tl *domain.Timeline, p fatigue.Parameters) (string, error) {
	payload, err := json.Marshal(struct {
		Timeline   *domain.Timeline   `json:"timeline"`
		Parameters fatigue.Parameters `json:"parameters"`
	}{tl, p})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	return "fatigue_result_" + hex.EncodeToString(sum[:]), nil
}

// analyze 先查 redis 缓存，未命中时运行引擎并写回缓存
// 缓存不可用只影响性能，不影响结果，所以 redis 的错误只记录日志
func (h *Handler) analyze(engine *fatigue.Engine, tl *domain.Timeline) (*fatigue.Result, error) {
	if h.redisClient == nil {
		return engine.Analyze(tl)
	}

	key, err := analysisCacheKey(tl, engine.Parameters())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		res := &fatigue.Result{}
		decodeErr := json.Unmarshal(cached, res)
		if decodeErr == nil {
			return res, nil
		}
		slog.Warn("缓存的分析结果无法解析", "key", key, "error", decodeErr)
	case !errors.Is(err, redis.Nil):
		slog.Warn("无法读取分析结果缓存", "key", key, "error", err)
	}

	res, err := engine.Analyze(tl)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	if err := h.redisClient.Set(ctx, key, data, time.Duration(h.config.Fatigue.CacheExpiration)*time.Second).Err(); err != nil {
		slog.Warn("无法写入分析结果缓存", "key", key, "error", err)
	}

	return res, nil
}
