package quota

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/internal/httpx"
)

// Action type ids understood by the tracking service.
const (
	ServiceCoinGecko     = 1
	ServiceCoinMarketCap = 2

	ActionPrice = 1
	ActionChart = 2
)

// Service is the optional remote usage tracker. A nil or unconfigured
// Service allows everything: tracking must never take the bot down.
type Service struct {
	baseURL string
	apiKey  string
	http    *httpx.Client
}

func New(baseURL, apiKey string, client *httpx.Client) *Service {
	return &Service{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (s *Service) Enabled() bool {
	return s != nil && s.baseURL != ""
}

// CheckAndRecord reports the call attempt and returns whether the action
// may proceed. Only an explicit 401 denies; any other status, timeout or
// transport failure fails open.
func (s *Service) CheckAndRecord(ctx context.Context, serviceID, actionTypeID int, chatID, coinID string) bool {
	if !s.Enabled() {
		return true
	}

	payload := map[string]any{
		"service_id": serviceID,
		"type_id":    actionTypeID,
		"chat_id":    chatID,
		"coin":       coinID,
	}

	status, err := s.http.PostJSON(ctx, s.baseURL+"/call", s.headers(), payload, nil)
	if err != nil {
		log.Errorf("usage tracking call failed, allowing action: %v", err)
		return true
	}
	return status != http.StatusUnauthorized
}

// ExcludedRules fetches the current exclusion rule list.
func (s *Service) ExcludedRules(ctx context.Context) ([]string, error) {
	var rules []string
	if err := s.http.GetJSON(ctx, s.baseURL+"/excluded", s.headers(), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Service) headers() map[string]string {
	if s.apiKey == "" {
		return nil
	}
	return map[string]string{"X-API-KEY": s.apiKey}
}
