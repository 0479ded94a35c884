package main

import (
	"context"
	"fmt"

	"github.com/cognicore/newsgrid/internal/logging"
	"github.com/cognicore/newsgrid/pkg/newsgrid"
	"github.com/cognicore/newsgrid/pkg/newsgrid/config"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index/bleveindex"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store/sqlite"
)

// session is an opened corpus ready for analysis
type session struct {
	engine *newsgrid.Engine
	index  *bleveindex.Index
	comp   *config.Components
}

func (s *session) Close() error { return s.index.Close() }

// openSession loads the analysis config and indexes the stored corpus.
// The config's log section applies unless --log-level or --pretty is set.
func openSession(ctx context.Context, dbPath, cfgPath string, flagsSet bool) (*session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if !flagsSet && cfg.Log.Level != "" {
		if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
			return nil, err
		}
	}
	comp, err := cfg.Components()
	if err != nil {
		return nil, err
	}

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ix, err := newsgrid.IndexStore(ctx, st)
	if err != nil {
		return nil, err
	}
	return &session{
		engine: newsgrid.New(newsgrid.Options{Index: ix}),
		index:  ix,
		comp:   comp,
	}, nil
}
