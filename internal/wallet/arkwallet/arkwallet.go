// Package arkwallet talks to an Ark wallet daemon over its REST API and funds
// notification stream.
package arkwallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"github.com/dwarvesf/arkswap/internal/blockstream"
	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

// onchainFeeTarget is the confirmation target used when paying an on-chain
// address without an explicit fee rate.
const onchainFeeTarget = 6

type Client struct {
	rest     *resty.Client
	wsURL    string
	dialer   *websocket.Dialer
	explorer blockstream.IBlockStream
	params   *chaincfg.Params
	logger   *logger.Logger
}

var _ wallet.IWallet = (*Client)(nil)

func New(cfg *config.AppConfig, explorer blockstream.IBlockStream, logger *logger.Logger) *Client {
	return NewWithURLs(cfg.Wallet.BaseURL, cfg.Wallet.WSURL, NetParams(cfg.Bitcoin.Network), explorer, logger)
}

func NewWithURLs(baseURL, wsURL string, params *chaincfg.Params, explorer blockstream.IBlockStream, logger *logger.Logger) *Client {
	return &Client{
		rest: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
		wsURL:    wsURL,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		explorer: explorer,
		params:   params,
		logger:   logger,
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, query map[string]string, out any) error {
	req := c.rest.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return c.decode(op, resp, err, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return c.decode(op, resp, err, out)
}

func (c *Client) decode(op string, resp *resty.Response, err error, out any) error {
	if err != nil {
		c.logger.Error(fmt.Sprintf("[%s][request]", op), map[string]string{
			"error": err.Error(),
		})
		return errs.Remote(0, fmt.Sprintf("wallet %s failed", op), err)
	}
	if resp.IsError() {
		message := http.StatusText(resp.StatusCode())
		var body errorResponse
		if json.Unmarshal(resp.Body(), &body) == nil {
			if body.Message != "" {
				message = body.Message
			} else if body.Error != "" {
				message = body.Error
			}
		}
		c.logger.Error(fmt.Sprintf("[%s][StatusCode]", op), map[string]string{
			"error":      message,
			"statusCode": strconv.Itoa(resp.StatusCode()),
		})
		return errs.Remote(resp.StatusCode(), message, nil)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errs.Remote(resp.StatusCode(), fmt.Sprintf("wallet %s returned an unreadable body", op), err)
	}
	return nil
}

func (c *Client) GetAddress(ctx context.Context) (string, error) {
	var res addressResponse
	if err := c.getJSON(ctx, "GetAddress", "/api/v1/address", nil, &res); err != nil {
		return "", err
	}
	if res.Address == "" {
		return "", errs.Remote(0, "wallet returned an empty address", nil)
	}
	return res.Address, nil
}

func (c *Client) GetBoardingAddress(ctx context.Context) (string, error) {
	var res addressResponse
	if err := c.getJSON(ctx, "GetBoardingAddress", "/api/v1/boarding-address", nil, &res); err != nil {
		return "", err
	}
	if !IsOnchainAddress(res.Address, c.params) {
		c.logger.Error("[GetBoardingAddress][IsOnchainAddress]", map[string]string{
			"address": res.Address,
			"network": c.params.Name,
		})
		return "", errs.Remote(0, fmt.Sprintf("wallet boarding address %q is not valid on %s", res.Address, c.params.Name), nil)
	}
	return res.Address, nil
}

func (c *Client) GetBalance(ctx context.Context) (*model.Balance, error) {
	var balance model.Balance
	if err := c.getJSON(ctx, "GetBalance", "/api/v1/balance", nil, &balance); err != nil {
		return nil, err
	}
	if balance.Total == 0 {
		balance.Total = balance.Offchain + balance.Onchain.Confirmed + balance.Onchain.Unconfirmed
	}
	return &balance, nil
}

func (c *Client) SendBitcoin(ctx context.Context, params wallet.SendParams) (string, error) {
	if params.Amount <= 0 {
		return "", errs.InvalidArgument("amount must be positive, got %d sats", params.Amount)
	}
	if !IsArkAddress(params.Address) && !IsOnchainAddress(params.Address, c.params) {
		return "", errs.InvalidArgument("%q is neither an Ark nor a %s address", params.Address, c.params.Name)
	}

	feeRate := params.FeeRate
	if feeRate == 0 && !IsArkAddress(params.Address) && c.explorer != nil {
		fees, err := c.explorer.EstimateFees(ctx)
		if err != nil {
			c.logger.Warn("[SendBitcoin][EstimateFees] falling back to wallet fee rate", map[string]string{
				"error": err.Error(),
			})
		} else {
			feeRate = blockstream.FeeRateFor(fees, onchainFeeTarget)
		}
	}

	var res sendResponse
	err := c.postJSON(ctx, "SendBitcoin", "/api/v1/send", sendRequest{
		Address: params.Address,
		Amount:  params.Amount,
		FeeRate: feeRate,
		Memo:    params.Memo,
	}, &res)
	if err != nil {
		return "", err
	}

	c.logger.Info("[SendBitcoin] payment sent", map[string]string{
		"address": params.Address,
		"amount":  strconv.FormatInt(params.Amount, 10),
		"txid":    res.TxID,
	})
	return res.TxID, nil
}

func (c *Client) GetBoardingUtxos(ctx context.Context) ([]model.Coin, error) {
	address, err := c.GetBoardingAddress(ctx)
	if err != nil {
		return nil, err
	}

	utxos, err := c.explorer.GetUTXOs(ctx, address)
	if err != nil {
		c.logger.Error("[GetBoardingUtxos][GetUTXOs]", map[string]string{
			"error":   err.Error(),
			"address": address,
		})
		return nil, errs.Remote(0, "failed to list boarding utxos", err)
	}

	coins := make([]model.Coin, 0, len(utxos))
	for _, u := range utxos {
		coin := model.Coin{
			TxID:      u.TxID,
			Vout:      u.Vout,
			Value:     u.Value,
			Confirmed: u.Status.Confirmed,
		}
		if u.Status.BlockTime > 0 {
			coin.CreatedAt = time.Unix(u.Status.BlockTime, 0).UTC()
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func (c *Client) GetVtxos(ctx context.Context, filter model.VtxoFilter) ([]model.Coin, error) {
	var res vtxosResponse
	err := c.getJSON(ctx, "GetVtxos", "/api/v1/vtxos", map[string]string{
		"with_recoverable": strconv.FormatBool(filter.WithRecoverable),
		"with_spent":       strconv.FormatBool(filter.WithSpent),
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Vtxos, nil
}

// NotifyIncomingFunds opens a dedicated stream connection for cb. Frames are
// delivered in order from a single reader goroutine that exits on unsubscribe,
// so cb must not call the returned unsubscribe itself. A read failure before
// unsubscribe is reported to onErr as a remote error.
func (c *Client) NotifyIncomingFunds(ctx context.Context, cb wallet.FundsCallback, onErr wallet.StreamErrorCallback) (func(), error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.logger.Error("[NotifyIncomingFunds][DialContext]", map[string]string{
			"error": err.Error(),
			"url":   c.wsURL,
		})
		return nil, errs.Remote(status, "failed to subscribe to wallet funds stream", err)
	}

	var closing atomic.Bool
	done := make(chan struct{})
	go c.readFunds(conn, cb, onErr, &closing, done)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			closing.Store(true)
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			_ = conn.Close()
			<-done
		})
	}
	return unsubscribe, nil
}

func (c *Client) readFunds(conn *websocket.Conn, cb wallet.FundsCallback, onErr wallet.StreamErrorCallback, closing *atomic.Bool, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if closing.Load() {
				return
			}
			c.logger.Error("[readFunds][ReadMessage] funds stream lost", map[string]string{
				"error": err.Error(),
			})
			if onErr != nil {
				onErr(errs.Remote(0, "wallet funds stream closed", err))
			}
			return
		}

		var event fundsEvent
		if err := json.Unmarshal(data, &event); err != nil {
			c.logger.Warn("[readFunds][json.Unmarshal] skipping frame", map[string]string{
				"error": err.Error(),
			})
			continue
		}
		if len(event.Coins) == 0 {
			continue
		}
		cb(model.IncomingFunds{Type: event.Type, Coins: event.Coins})
	}
}
