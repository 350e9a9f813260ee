// Package catalog 商品目录服务的HTTP客户端实现
//
// 目录服务是下单链路上唯一的外部同步依赖，按"重试包熔断"组合防护：
// - 指数退避重试吸收瞬时抖动（只重试5xx和网络错误）
// - 熔断器在目录持续故障时快速失败，保护下单线程池
// - 4xx类错误（不存在、参数错）不重试也不计入熔断
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	domain "github.com/xiebiao/shopmall/internal/domain/catalog"
	"github.com/xiebiao/shopmall/internal/infrastructure/config"
	"github.com/xiebiao/shopmall/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/metrics"
)

// productResponse 目录服务的商品响应体
type productResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"` // 单价（分）
	Active bool   `json:"active"`
}

// HTTPClient 目录服务客户端
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	maxRetries uint64
}

// NewHTTPClient 创建目录客户端
func NewHTTPClient(cfg config.CatalogConfig) *HTTPClient {
	cb := circuitbreaker.NewCircuitBreaker("catalog", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("⚠️ 熔断器[%s]状态变化: %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    cb,
		maxRetries: uint64(cfg.MaxRetries),
	}
}

// GetProduct 查询商品
func (c *HTTPClient) GetProduct(ctx context.Context, productID uint) (*domain.Product, error) {
	var product *domain.Product
	var bizErr error

	err := c.breaker.Execute(func() error {
		p, err := c.getWithRetry(ctx, productID)
		if err != nil {
			// 业务性失败（商品不存在/请求被拒）说明目录服务是健康的，
			// 对熔断器上报成功，避免误触发熔断
			if apperrors.IsNotFound(err) || apperrors.IsInvalidArgument(err) {
				bizErr = err
				return nil
			}
			return err
		}
		product = p
		return nil
	})

	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return nil, apperrors.ErrCatalogDown
	}
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return product, nil
}

// getWithRetry 带指数退避的单商品查询
func (c *HTTPClient) getWithRetry(ctx context.Context, productID uint) (*domain.Product, error) {
	var product *domain.Product

	operation := func() error {
		p, err := c.getOnce(ctx, productID)
		if err != nil {
			// 4xx类错误重试没有意义，直接终止
			if apperrors.IsNotFound(err) || apperrors.IsInvalidArgument(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		product = p
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *HTTPClient) getOnce(ctx context.Context, productID uint) (*domain.Product, error) {
	url := fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCatalogDown, "构造目录请求失败")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCatalogDown, "目录服务请求失败")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// 正常解析
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.ErrProductNotFound
	case resp.StatusCode >= 500:
		return nil, apperrors.Newf(apperrors.ErrCodeCatalogDown, "目录服务异常: HTTP %d", resp.StatusCode)
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidArgument, "目录服务拒绝请求: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCatalogDown, "读取目录响应失败")
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeCatalogDown, "解析目录响应失败")
	}

	return &domain.Product{
		ID:     pr.ID,
		Name:   pr.Name,
		Price:  pr.Price,
		Active: pr.Active,
	}, nil
}
