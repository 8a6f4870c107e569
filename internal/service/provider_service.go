package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"adminpanel/internal/provider"

	"github.com/go-redis/redis/v8"
)

const profileCacheKey = "atlantic:profile"

// ProviderService 上游供应商只读代理
// profile 带 Redis 短缓存，缓存不可用时直接透传上游，不让缓存故障放大为接口故障
type ProviderService struct {
	client   *provider.Client
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewProviderService(client *provider.Client, rdb *redis.Client, cacheSeconds int) *ProviderService {
	ttl := time.Duration(cacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ProviderService{client: client, rdb: rdb, cacheTTL: ttl}
}

type ProfileResult struct {
	Info    string            `json:"info"`
	Profile *provider.Profile `json:"profile"`
}

func (s *ProviderService) GetProfile(ctx context.Context) (*ProfileResult, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, profileCacheKey).Result()
		if err == nil {
			var result ProfileResult
			if jsonErr := json.Unmarshal([]byte(cached), &result); jsonErr == nil {
				return &result, nil
			}
		} else if err != redis.Nil {
			log.Printf("[PROVIDER] 缓存读取失败，直接请求上游: %v", err)
		}
	}

	profile, info, err := s.client.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	result := &ProfileResult{Info: info, Profile: profile}

	if s.rdb != nil {
		if payload, jsonErr := json.Marshal(result); jsonErr == nil {
			if err := s.rdb.Set(ctx, profileCacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Printf("[PROVIDER] 缓存写入失败: %v", err)
			}
		}
	}

	return result, nil
}

type CheckOrderResult struct {
	Status string              `json:"status"`
	Detail *provider.TrxDetail `json:"detail"`
}

func (s *ProviderService) CheckOrder(ctx context.Context, id, trxType string) (*CheckOrderResult, error) {
	if trxType == "" {
		trxType = "prabayar"
	}

	status, detail, err := s.client.CheckTrxStatus(ctx, id, trxType)
	if err != nil {
		return nil, err
	}

	return &CheckOrderResult{Status: status, Detail: detail}, nil
}
