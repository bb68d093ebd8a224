package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/latticekit/lattice/pkg/config"
	"github.com/latticekit/lattice/pkg/plugin"
)

type flatFeeSettings struct {
	Fee float64 `mapstructure:"fee"`
}

// flatFeeService charges a fixed fee per request.
type flatFeeService struct {
	name string
	fee  float64
}

func newFlatFeeService(name string, settings map[string]any) (plugin.Service, error) {
	var s flatFeeSettings
	if err := config.DecodeSettings(settings, &s); err != nil {
		return nil, err
	}
	if s.Fee < 0 {
		return nil, fmt.Errorf("fee must not be negative")
	}
	return &flatFeeService{name: name, fee: s.Fee}, nil
}

func (s *flatFeeService) Name() string { return s.name }

func (s *flatFeeService) Init(ctx context.Context) error { return nil }

func (s *flatFeeService) Validate(req plugin.Request) error {
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", req.Amount)
	}
	if len(req.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", req.Currency)
	}
	return nil
}

func (s *flatFeeService) Execute(ctx context.Context, req plugin.Request) (plugin.Response, error) {
	return plugin.Response{
		Reference: "ff-" + uuid.NewString(),
		Fee:       s.fee,
		Details:   map[string]string{"currency": req.Currency},
	}, nil
}

func (s *flatFeeService) Fee(req plugin.Request) float64 { return s.fee }

func (s *flatFeeService) Shutdown(ctx context.Context) error { return nil }
