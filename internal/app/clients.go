package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/recipebook-backend/internal/clients/redis"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

type Clients struct {
	ChangeBus redis.ChangeBus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var bus redis.ChangeBus
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := redis.NewChangeBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis change bus: %w", err)
		}
		bus = b
	}

	return Clients{ChangeBus: bus}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ChangeBus != nil {
		_ = c.ChangeBus.Close()
	}
}
