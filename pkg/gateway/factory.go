package gateway

import (
	"fmt"
	"strings"

	"ai-imagegen-be/internal/config"
)

// Factory resolves a gateway by name. Services depend on the interface
// so tests can register fakes.
type Factory interface {
	Get(name string) (Gateway, error)
	Names() []string
}

type factory struct {
	gateways map[string]Gateway
	names    []string
}

func NewFactory(cfg config.GatewayConfig, clientURL string) Factory {
	ordered := []Gateway{
		NewKhaltiGateway(cfg.KhaltiSecretKey, cfg.KhaltiBaseURL, clientURL),
		NewESewaGateway(cfg.ESewaMerchantCode, cfg.ESewaBaseURL, clientURL),
		NewStripeGateway(cfg.StripeSecretKey, clientURL),
		NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, clientURL),
		NewBinanceGateway(cfg.BinanceAPIKey, clientURL),
		NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransEnv, clientURL),
	}

	gateways := make(map[string]Gateway, len(ordered))
	names := make([]string, 0, len(ordered))
	for _, g := range ordered {
		gateways[g.Name()] = g
		names = append(names, g.Name())
	}

	return &factory{
		gateways: gateways,
		names:    names,
	}
}

func (f *factory) Get(name string) (Gateway, error) {
	g, ok := f.gateways[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported payment gateway: %s", name)
	}
	return g, nil
}

func (f *factory) Names() []string {
	return f.names
}
