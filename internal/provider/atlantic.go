package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adminpanel/internal/config"

	"github.com/shopspring/decimal"
)

var ErrTrxNotFound = errors.New("transaksi tidak ditemukan atau gagal")

// Client Atlantic H2H 只读代理客户端
// 超时由 http.Client 统一控制，业务层不做重试
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.AtlanticConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Profile 供应商账号概况
type Profile struct {
	Nama   string          `json:"nama"`
	User   string          `json:"user"`
	Email  string          `json:"email"`
	Hp     string          `json:"hp"`
	Saldo  decimal.Decimal `json:"saldo"`
	Status string          `json:"status"`
}

type profileResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Name     string      `json:"name"`
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Phone    string      `json:"phone"`
		Balance  json.Number `json:"balance"`
		Status   string      `json:"status"`
	} `json:"data"`
}

// GetProfile 拉取供应商账号信息 GET /get_profile
func (c *Client) GetProfile(ctx context.Context) (*Profile, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get_profile", nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	var ext profileResponse
	if err := json.Unmarshal(body, &ext); err != nil {
		return nil, "", fmt.Errorf("format respons Atlantic tidak valid: %w", err)
	}

	if ext.Status != "true" || ext.Data == nil {
		return nil, "", errors.New("format respons Atlantic tidak valid")
	}

	saldo, err := decimal.NewFromString(ext.Data.Balance.String())
	if err != nil {
		return nil, "", fmt.Errorf("format respons Atlantic tidak valid: %w", err)
	}

	return &Profile{
		Nama:   ext.Data.Name,
		User:   ext.Data.Username,
		Email:  ext.Data.Email,
		Hp:     ext.Data.Phone,
		Saldo:  saldo,
		Status: ext.Data.Status,
	}, ext.Message, nil
}

// TrxDetail 上游交易状态明细
type TrxDetail struct {
	ID      string          `json:"id"`
	ReffID  string          `json:"reff_id"`
	Layanan string          `json:"layanan"`
	Kode    string          `json:"kode"`
	Target  string          `json:"target"`
	Harga   decimal.Decimal `json:"harga"`
	Sn      *string         `json:"sn"`
	Waktu   string          `json:"waktu"`
}

type trxStatusResponse struct {
	Status bool `json:"status"`
	Data   *struct {
		Status    string      `json:"status"`
		ID        string      `json:"id"`
		ReffID    string      `json:"reff_id"`
		Layanan   string      `json:"layanan"`
		Code      string      `json:"code"`
		Target    string      `json:"target"`
		Price     json.Number `json:"price"`
		Sn        string      `json:"sn"`
		CreatedAt string      `json:"created_at"`
	} `json:"data"`
}

// CheckTrxStatus 查询上游交易状态 POST /transaksi/status（表单编码）
// 上游回 status=false 或空 data 时返回 ErrTrxNotFound
func (c *Client) CheckTrxStatus(ctx context.Context, id, trxType string) (string, *TrxDetail, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("id", id)
	form.Set("type", trxType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaksi/status", strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}

	var ext trxStatusResponse
	if err := json.Unmarshal(body, &ext); err != nil {
		return "", nil, fmt.Errorf("format respons Atlantic tidak valid: %w", err)
	}

	if !ext.Status || ext.Data == nil {
		return "", nil, ErrTrxNotFound
	}

	harga, err := decimal.NewFromString(ext.Data.Price.String())
	if err != nil {
		harga = decimal.Zero
	}

	var sn *string
	if trimmed := strings.TrimSpace(ext.Data.Sn); trimmed != "" {
		sn = &trimmed
	}

	detail := &TrxDetail{
		ID:      ext.Data.ID,
		ReffID:  ext.Data.ReffID,
		Layanan: ext.Data.Layanan,
		Kode:    ext.Data.Code,
		Target:  ext.Data.Target,
		Harga:   harga,
		Sn:      sn,
		Waktu:   ext.Data.CreatedAt,
	}

	return ext.Data.Status, detail, nil
}
