// Package tokenregistry resolves token identifiers to the swap service's token
// metadata. The remote list is fetched once per registry and never refreshed.
package tokenregistry

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/dwarvesf/arkswap/internal/consts"
	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

const fetchKey = "tokens"

// chainSuffixes maps chain names to the suffix used in canonical token keys.
var chainSuffixes = map[string]string{
	"polygon":  "pol",
	"ethereum": "eth",
	"arbitrum": "arb",
	"base":     "base",
	"arkade":   "arkade",
}

type IRegistry interface {
	Resolve(ctx context.Context, token, chain string) (*model.TokenRef, error)
	All(ctx context.Context) ([]model.TokenRef, error)
}

type Registry struct {
	api    swapapi.ISwapAPI
	logger *logger.Logger

	cache *cache.Cache
	group singleflight.Group

	mu      sync.RWMutex
	fetched bool
	tokens  []model.TokenRef
}

func New(api swapapi.ISwapAPI, logger *logger.Logger) *Registry {
	return &Registry{
		api:    api,
		logger: logger,
		cache:  cache.New(cache.NoExpiration, 0),
	}
}

// ChainSuffix returns the key suffix for chain. chain may already be a suffix.
func ChainSuffix(chain string) string {
	chain = strings.ToLower(strings.TrimSpace(chain))
	if suffix, ok := chainSuffixes[chain]; ok {
		return suffix
	}
	return chain
}

// ChainName is the inverse of ChainSuffix.
func ChainName(chain string) string {
	chain = strings.ToLower(strings.TrimSpace(chain))
	for name, suffix := range chainSuffixes {
		if suffix == chain {
			return name
		}
	}
	return chain
}

// Key builds the canonical key, e.g. ("USDC", "polygon") -> "usdc_pol".
// A token that already carries a chain suffix is returned as-is.
func Key(token, chain string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if _, suffix := splitKey(token); suffix != "" || strings.TrimSpace(chain) == "" {
		return token
	}
	return token + "_" + ChainSuffix(chain)
}

// splitKey separates a known chain suffix: "usdc_pol" -> ("usdc", "pol").
func splitKey(token string) (string, string) {
	i := strings.LastIndex(token, "_")
	if i <= 0 {
		return token, ""
	}
	suffix := token[i+1:]
	for _, s := range chainSuffixes {
		if s == suffix {
			return token[:i], suffix
		}
	}
	return token, ""
}

func (r *Registry) Resolve(ctx context.Context, token, chain string) (*model.TokenRef, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errs.InvalidArgument("token is required")
	}
	key := Key(token, chain)

	if ref, ok := r.lookup(key); ok {
		return ref, nil
	}

	if err := r.ensureFetched(ctx); err != nil {
		return nil, err
	}

	if ref, ok := r.lookup(key); ok {
		return ref, nil
	}

	symbol, suffix := splitKey(key)
	if strings.TrimSpace(chain) == "" {
		chain = suffix
	}
	ref, ok := r.scan(symbol, ChainName(chain))
	if !ok {
		r.logger.Warn("[Resolve][scan] token not found", map[string]string{
			"token": token,
			"chain": chain,
		})
		return nil, errs.NotFound("token %s on %s not found", token, chain)
	}
	r.cache.SetDefault(key, *ref)
	return ref, nil
}

func (r *Registry) All(ctx context.Context) ([]model.TokenRef, error) {
	if err := r.ensureFetched(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.TokenRef, len(r.tokens))
	copy(out, r.tokens)
	return out, nil
}

func (r *Registry) lookup(key string) (*model.TokenRef, bool) {
	v, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	ref := v.(model.TokenRef)
	return &ref, true
}

func (r *Registry) isFetched() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetched
}

// ensureFetched loads the remote token list once. Concurrent callers share one
// in-flight request; a failed fetch is not remembered.
func (r *Registry) ensureFetched(ctx context.Context) error {
	if r.isFetched() {
		return nil
	}

	_, err, _ := r.group.Do(fetchKey, func() (interface{}, error) {
		if r.isFetched() {
			return nil, nil
		}

		infos, err := r.api.GetTokens(ctx)
		if err != nil {
			r.logger.Error("[ensureFetched][GetTokens]", map[string]string{
				"error": err.Error(),
			})
			if _, ok := errs.From(err); ok {
				return nil, err
			}
			return nil, errs.Remote(0, "failed to list tokens", err)
		}

		tokens := make([]model.TokenRef, 0, len(infos))
		for _, info := range infos {
			ref := toTokenRef(info)
			tokens = append(tokens, ref)
			r.cache.SetDefault(ref.ID, ref)
		}

		r.mu.Lock()
		r.tokens = tokens
		r.fetched = true
		r.mu.Unlock()

		r.logger.Info("[ensureFetched] token list loaded", map[string]string{
			"count": strconv.Itoa(len(tokens)),
		})
		return nil, nil
	})
	return err
}

func (r *Registry) scan(symbol, chain string) (*model.TokenRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tokens {
		if strings.EqualFold(t.Chain, chain) && strings.EqualFold(t.Symbol, symbol) {
			ref := t
			return &ref, true
		}
	}
	return nil, false
}

func toTokenRef(info swapapi.TokenInfo) model.TokenRef {
	id := strings.ToLower(info.TokenID)
	if id == "" {
		id = Key(info.Symbol, info.Chain)
	}
	address := info.TokenAddress
	if strings.EqualFold(address, consts.TokenBTC) {
		address = consts.TokenBTC
	}
	return model.TokenRef{
		ID:           id,
		Symbol:       info.Symbol,
		Chain:        strings.ToLower(info.Chain),
		ChainID:      info.ChainID,
		Decimals:     info.Decimals,
		TokenAddress: address,
	}
}
