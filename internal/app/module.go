package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/blancosphere/streamvault/internal/app/api/server"
	"github.com/blancosphere/streamvault/internal/app/service/account"
	"github.com/blancosphere/streamvault/internal/app/service/activation"
	"github.com/blancosphere/streamvault/internal/app/service/checkout"
	"github.com/blancosphere/streamvault/internal/app/service/eventlog"
	"github.com/blancosphere/streamvault/internal/app/service/mailer"
	"github.com/blancosphere/streamvault/internal/app/service/webhookflow"
	"github.com/blancosphere/streamvault/internal/platform/db"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/internal/platform/mail"
	"github.com/blancosphere/streamvault/internal/platform/panel"
	"github.com/blancosphere/streamvault/internal/platform/payment"
	"github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	kv.Module,
	payment.Module,
	panel.Module,
	mail.Module,
	server.Module,
	eventlog.Module,
	account.Module,
	mailer.Module,
	checkout.Module,
	activation.Module,
	webhookflow.Module,
)
