package server

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/blockstream"
	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/funding"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/quote"
	"github.com/dwarvesf/arkswap/internal/store"
	"github.com/dwarvesf/arkswap/internal/store/database"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/tokenregistry"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/utils/vault"
	"github.com/dwarvesf/arkswap/internal/wallet"
	"github.com/dwarvesf/arkswap/internal/wallet/arkwallet"
)

// Core is the swap coordinator with its collaborators, shared by the HTTP
// server and the CLI.
type Core struct {
	DB         *gorm.DB
	Store      *store.Store
	SwapAPI    swapapi.ISwapAPI
	Explorer   blockstream.IBlockStream
	Wallet     wallet.IWallet
	Controller *controller.Controller
	Waiter     *funding.Waiter
}

// NewCore wires the coordinator. Remote clients sit behind circuit breakers
// reporting to apiMetrics; observer may be nil.
func NewCore(
	ctx context.Context,
	appConfig *config.AppConfig,
	logger *logger.Logger,
	apiMetrics *monitoring.ExternalAPIMetrics,
	observer controller.StatusObserver,
) (*Core, error) {
	if err := loadSwapAPIKey(ctx, appConfig); err != nil {
		return nil, errors.Wrap(err, "load swap api key")
	}

	db, err := database.Open(appConfig.Database)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", appConfig.Database.Driver)
	}
	if appConfig.Database.Driver == database.DriverSQLite {
		// postgres schemas are owned by cmd/migrate
		if err := store.AutoMigrate(db); err != nil {
			return nil, errors.Wrap(err, "migrate sqlite schema")
		}
	}

	var swapAPI swapapi.ISwapAPI = monitoring.NewCircuitBreakerSwapAPI(
		swapapi.New(appConfig, logger),
		monitoring.CircuitBreakerConfigs[monitoring.ServiceSwapAPI],
		apiMetrics, logger,
	)
	var explorer blockstream.IBlockStream = monitoring.NewCircuitBreakerExplorer(
		blockstream.New(appConfig, logger),
		monitoring.CircuitBreakerConfigs[monitoring.ServiceExplorer],
		apiMetrics, logger,
	)
	w := arkwallet.New(appConfig, explorer, logger)

	s := store.New()
	tokens := tokenregistry.New(swapAPI, logger)
	quotes := quote.New(swapAPI, tokens, logger)

	var opts []controller.Option
	if observer != nil {
		opts = append(opts, controller.WithObserver(observer))
	}

	return &Core{
		DB:         db,
		Store:      s,
		SwapAPI:    swapAPI,
		Explorer:   explorer,
		Wallet:     w,
		Controller: controller.New(swapAPI, tokens, quotes, w, db, s, logger, opts...),
		Waiter:     funding.New(w, logger),
	}, nil
}

// loadSwapAPIKey pulls the swap service key from Vault when Vault is
// configured and no key was given in the environment.
func loadSwapAPIKey(ctx context.Context, appConfig *config.AppConfig) error {
	if appConfig.SwapAPI.APIKey != "" || appConfig.Vault.Addr == "" {
		return nil
	}
	key, err := vault.New(appConfig.Vault).GetKV(ctx, appConfig.Vault.APIKeyField)
	if err != nil {
		return err
	}
	appConfig.SwapAPI.APIKey = key
	return nil
}
