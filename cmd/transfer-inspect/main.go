// Command transfer-inspect builds a signed payment-creation transfer from
// command line flags and prints it, so the Authorization header and signed
// body can be inspected against the gateway documentation without sending
// anything over the wire.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/config"
	"github.com/example/payments-gateway/internal/gateway"
)

func main() {
	var (
		storeID     = flag.String("store", "default", "store scope to resolve credentials for")
		orderNumber = flag.String("order", "000000001", "order number placed in the request")
		currency    = flag.String("currency", "EUR", "transaction currency code")
		amount      = flag.Int("amount", 1000, "transaction amount in minor units")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	digest, err := gateway.NewDigest(cfg.Gateway)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise digest")
	}
	currencies, err := gateway.NewCurrencyValidator(cfg.Gateway)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise currency validator")
	}
	builder, err := gateway.NewTransferBuilder(cfg.Gateway, digest, currencies, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise transfer builder")
	}

	request := map[string]any{
		gateway.StoreScopeKey: *storeID,
		"order_number":        *orderNumber,
		"currency":            *currency,
		"amount":              *amount,
		"transaction_type":    "purchase",
	}

	transfer, err := builder.Build(request)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build transfer")
	}

	fmt.Printf("%s %s\n", transfer.Method, transfer.URI)
	for name, value := range transfer.Headers {
		fmt.Printf("%s: %s\n", name, value)
	}
	fmt.Printf("\n%s\n", transfer.Body)
}
