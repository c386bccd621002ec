package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/edgescan/config"
	"github.com/alejandrodnm/edgescan/internal/adapters/cache"
	"github.com/alejandrodnm/edgescan/internal/adapters/notify"
	"github.com/alejandrodnm/edgescan/internal/adapters/stream"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// buildNotifier arma la cadena de salida: la consola siempre recibe el lote
// completo; Telegram y Kafka reciben solo lo nuevo si hay Redis configurado.
// Los destinos opcionales que fallan al iniciar se omiten con un warning.
func buildNotifier(ctx context.Context, cfg *config.Config, table bool) (ports.Notifier, func()) {
	var closers []func() error
	var alerts []ports.Notifier

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("telegram disabled", "err", err)
		} else {
			alerts = append(alerts, tg)
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := stream.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			slog.Warn("kafka disabled", "err", err)
		} else {
			alerts = append(alerts, pub)
			closers = append(closers, pub.Close)
		}
	}

	var downstream ports.Notifier = notify.NewMulti(alerts...)
	if len(alerts) > 0 && cfg.Redis.Addr != "" {
		seen, err := cache.NewRedisSeenCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.SeenTTL(),
		})
		if err != nil {
			slog.Warn("alert dedupe disabled", "err", err)
		} else {
			downstream = notify.NewDedupe(downstream, seen)
			closers = append(closers, seen.Close)
		}
	}

	slog.Info("notifiers ready", "alert_sinks", len(alerts))

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Warn("close notifier", "err", err)
			}
		}
	}
	return notify.NewMulti(notify.NewConsole(table), downstream), closeAll
}
