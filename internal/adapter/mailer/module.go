package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/campuseats/canteen/internal/config"
)

// Module exposes mail gateway sender implementation to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.MailGatewayAddress == "" {
		return NewNopSender(p.Logger), nil
	}
	return NewHTTPClient(p.Config.MailGatewayAddress, p.Logger)
}
