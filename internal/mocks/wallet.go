package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

type Wallet struct {
	mock.Mock
}

var _ wallet.IWallet = (*Wallet)(nil)

func (m *Wallet) GetAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Wallet) GetBoardingAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Wallet) GetBalance(ctx context.Context) (*model.Balance, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*model.Balance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Wallet) SendBitcoin(ctx context.Context, params wallet.SendParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *Wallet) GetBoardingUtxos(ctx context.Context) ([]model.Coin, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Coin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Wallet) GetVtxos(ctx context.Context, filter model.VtxoFilter) ([]model.Coin, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Coin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Wallet) NotifyIncomingFunds(ctx context.Context, cb wallet.FundsCallback, onErr wallet.StreamErrorCallback) (func(), error) {
	args := m.Called(ctx, cb, onErr)
	if v := args.Get(0); v != nil {
		return v.(func()), args.Error(1)
	}
	return nil, args.Error(1)
}
