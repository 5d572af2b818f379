package dataset

import (
	"context"
	"fmt"

	"intake/internal/config"
	"intake/internal/parser"
)

// Load ingests one configured input into the store. A single input can
// produce several tables (workbook sheets, multi-table HTML pages); each is
// upserted independently. Per-record parse errors are logged and skipped; a
// file that yields no tables at all returns a wrapped ErrNoData.
func (s *Store) Load(ctx context.Context, in config.Input) error {
	opt := in.Options
	if in.Name != "" {
		opt = withName(opt, in.Name)
	}

	raws, err := parser.LoadFile(ctx, in.Path, opt, func(line int, err error) {
		s.logf("skip record: %s line %d: %v", in.Path, line, err)
	})
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return fmt.Errorf("%s: %w", in.Path, ErrNoData)
	}

	for _, raw := range raws {
		if _, err := s.Upsert(raw); err != nil {
			return err
		}
	}
	return nil
}

func withName(opt config.Options, name string) config.Options {
	out := make(config.Options, len(opt)+1)
	for k, v := range opt {
		out[k] = v
	}
	out["table"] = name
	return out
}
