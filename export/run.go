// Package export implements the analyze subcommand: load a plugin or memory
// dump, rebuild the derived structures and write them out for downstream
// viewers.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/analysis"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/config"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/state"
)

// LoadStore reads records from the source file. An intact master file is
// recognized by its TES4 header and decoded little-endian; anything else -
// or anything with forceDump set - is treated as a big-endian console memory
// dump and scanned forensically.
func LoadStore(path string, forceDump bool, log *zap.Logger) (*espm.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open source: %w", err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		return nil, fmt.Errorf("unable to read source header: %w", err)
	}

	if !forceDump && string(magic[:]) == "TES4" {
		log.Info("Decoding master file", zap.String("source", path))
		return espm.DecodePlugin(f, log)
	}
	log.Info("Scanning memory dump", zap.String("source", path))
	return espm.ScanDump(f, log)
}

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("analyze")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := config.ParseExportFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown export format requested, switching to sqlite", zap.Error(err))
		format = config.ExportFmtSqlite
	}
	env.Overwrite, env.ForceDump = cmd.Bool("overwrite"), cmd.Bool("dump")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	store, err := LoadStore(src, env.ForceDump, log)
	if err != nil {
		return err
	}
	log.Info("Records loaded", zap.Int("records", store.Len()), zap.Int("duplicates", store.Duplicates()))

	sess := analysis.NewSession(store, log)

	out := buildOutputPath(src, dst, format, env)
	if _, err := os.Stat(out); err == nil && !env.Overwrite {
		return fmt.Errorf("destination '%s' already exists, use --overwrite to replace it", out)
	}

	switch format {
	case config.ExportFmtSqlite:
		err = writeSQLite(out, sess, env.Overwrite)
	case config.ExportFmtXml:
		err = writeXML(out, sess, &env.Cfg.Export.Dialogue)
	}
	if err != nil {
		return fmt.Errorf("unable to export analysis results: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.StoreData("analysis/summary.txt", summarize(sess))
	}

	log.Info("Analysis exported", zap.String("file", out))
	return nil
}

// summarize produces the short text block stored in debug reports.
func summarize(sess *analysis.Session) []byte {
	tree := sess.DialogueTree()
	return fmt.Appendf(nil,
		"records: %d\nduplicates: %d\nleveled lists: %d\nquests: %d\ntopics: %d\norphan topics: %d\n",
		sess.Store().Len(),
		sess.Store().Duplicates(),
		len(sess.SpawnTable()),
		len(tree.Quests),
		len(tree.Topics()),
		len(tree.Orphans))
}
