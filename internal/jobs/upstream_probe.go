package jobs

import (
	"context"
	"time"

	"github.com/Spok95/telegram-movies-bot/internal/ctxutil"
	"github.com/Spok95/telegram-movies-bot/internal/metrics"
	"github.com/Spok95/telegram-movies-bot/internal/omdb"
)

const (
	probeInterval = 5 * time.Minute
	probeTimeout  = 10 * time.Second
)

// StartUpstreamProbe периодически дёргает OMDb одной попыткой без ретраев
// и выставляет метрику доступности. Результат никуда не сохраняется.
func StartUpstreamProbe(r *Runner, api *omdb.Client) {
	r.Every(probeInterval, "omdb_probe", func(ctx context.Context) error {
		ctx, cancel := ctxutil.WithTimeout(ctx, probeTimeout)
		defer cancel()
		err := api.Ping(ctx)
		metrics.SetUpstreamUp("omdb", err == nil)
		return err
	})
}
