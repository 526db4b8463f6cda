package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/config"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/state"
)

// templateValues are the fields available to export.output_name_template.
type templateValues struct {
	Source  string // source file name without extension
	Format  string
	Session string
}

// buildOutputPath returns constructed output file path/name based on input
// parameters. It uses either default naming scheme or user-defined template
// and, if requested, transliterates the result.
func buildOutputPath(src, dst string, format config.ExportFmt, env *state.LocalEnv) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	name := base
	if tmpl := env.Cfg.Export.OutputNameTemplate; tmpl != "" {
		if expanded := expandNameTemplate(tmpl, templateValues{
			Source:  base,
			Format:  format.String(),
			Session: env.SessionID.String(),
		}, env.Log); expanded != "" {
			name = expanded
		}
	}
	if env.Cfg.Export.FileNameTransliterate {
		name = slug.Make(name)
	}
	return filepath.Join(dst, config.CleanFileName(name)+format.Ext())
}

func expandNameTemplate(text string, values templateValues, log *zap.Logger) string {
	tmpl, err := template.New("output-name").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		log.Warn("Unable to parse output name template, using default name", zap.Error(err))
		return ""
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		log.Warn("Unable to expand output name template, using default name", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(buf.String())
}
