package main

import (
	"github.com/alexisbeaulieu97/splinter/internal/bisect"
	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/loader"
	"github.com/alexisbeaulieu97/splinter/internal/manifest"
)

type runtime struct {
	bus     *events.Bus
	session *bisect.Session
	sources int
}

// startSession discovers the plugins in the mods folder and starts ingesting
// them in the background.
func startSession(app *appContext) (*runtime, error) {
	paths, err := manifest.Discover(app.modsDir, app.cfg.Mods.Ignore)
	if err != nil {
		return nil, err
	}

	reader := manifest.NewReader(
		manifest.WithStability(app.cfg.StabilityOf),
		manifest.WithLogger(app.log),
	)
	ld := loader.Start(paths, reader.Read, app.log)

	opts := []bisect.Option{
		bisect.WithLogger(app.log),
		bisect.WithMaxAttempts(app.cfg.Split.MaxAttempts),
		bisect.WithHistoryLimit(app.cfg.History.Limit),
	}
	if app.cfg.Split.Seed != nil {
		opts = append(opts, bisect.WithSeed(*app.cfg.Split.Seed))
	}

	bus := events.NewBus(app.log)
	return &runtime{
		bus:     bus,
		session: bisect.NewSession(bus, ld, opts...),
		sources: len(paths),
	}, nil
}
