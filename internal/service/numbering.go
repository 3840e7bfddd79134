package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NumberGenerator produces human-readable ticket references.
type NumberGenerator interface {
	Next(ctx context.Context, now time.Time) string
}

// ticketNumberGenerator issues PREFIX-YYYYMMDD-NNNN numbers from a
// per-day Redis counter. When Redis is unreachable it falls back to a
// uuid-derived suffix so submission never blocks on the counter.
type ticketNumberGenerator struct {
	client *redis.Client
	prefix string
}

// NewTicketNumberGenerator builds the generator. A nil client always
// uses the fallback suffix.
func NewTicketNumberGenerator(client *redis.Client, prefix string) NumberGenerator {
	if prefix == "" {
		prefix = "ADU"
	}
	return &ticketNumberGenerator{client: client, prefix: prefix}
}

func (g *ticketNumberGenerator) Next(ctx context.Context, now time.Time) string {
	day := now.UTC().Format("20060102")
	if g.client != nil {
		key := "ticket_seq:" + day
		seq, err := g.client.Incr(ctx, key).Result()
		if err == nil {
			// keep yesterday's counter around briefly for stragglers
			g.client.Expire(ctx, key, 48*time.Hour)
			return fmt.Sprintf("%s-%s-%04d", g.prefix, day, seq)
		}
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", g.prefix, day, suffix)
}
