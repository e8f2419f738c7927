// Package mocks holds testify mocks of the coordinator's collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/arkswap/internal/swapapi"
)

type SwapAPI struct {
	mock.Mock
}

var _ swapapi.ISwapAPI = (*SwapAPI)(nil)

func (m *SwapAPI) GetTokens(ctx context.Context) ([]swapapi.TokenInfo, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]swapapi.TokenInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) GetQuote(ctx context.Context, req swapapi.QuoteRequest) (*swapapi.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.QuoteResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) CreateArkadeToEvm(ctx context.Context, req swapapi.ArkadeToEvmRequest) (*swapapi.SwapResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.SwapResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) CreateEvmToArkade(ctx context.Context, req swapapi.EvmToArkadeRequest) (*swapapi.SwapResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.SwapResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) GetSwap(ctx context.Context, swapID string) (*swapapi.SwapResponse, error) {
	args := m.Called(ctx, swapID)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.SwapResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) ListSwaps(ctx context.Context) ([]swapapi.SwapResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]swapapi.SwapResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) Claim(ctx context.Context, swapID string) (*swapapi.ClaimResponse, error) {
	args := m.Called(ctx, swapID)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.ClaimResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) Refund(ctx context.Context, swapID string, req swapapi.RefundRequest) (*swapapi.RefundResponse, error) {
	args := m.Called(ctx, swapID, req)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.RefundResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) GetCoordinatorFundingCallData(ctx context.Context, swapID string) (*swapapi.CallDataResponse, error) {
	args := m.Called(ctx, swapID)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.CallDataResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) GetCoordinatorRefundCallData(ctx context.Context, swapID string) (*swapapi.CallDataResponse, error) {
	args := m.Called(ctx, swapID)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.CallDataResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SwapAPI) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *SwapAPI) GetVersion(ctx context.Context) (*swapapi.VersionResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*swapapi.VersionResponse), args.Error(1)
	}
	return nil, args.Error(1)
}
