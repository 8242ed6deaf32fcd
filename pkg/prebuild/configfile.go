package prebuild

import (
	"os"

	"github.com/pkg/errors"

	"github.com/modsense/firmware-prebuild/internal/logger"
)

// ErrTemplateMissing is the single fatal condition of the tool: no
// working config exists and there is no template to create one from.
var ErrTemplateMissing = errors.New("config template not found")

// ensureConfig copies the template to the working config path when the
// working config is absent. An existing working config is never
// touched: it holds the user's customization.
func (r *Runner) ensureConfig() (ConfigResult, error) {
	workingPath := r.abs(r.cfg.Paths.Config)
	templatePath := r.abs(r.cfg.Paths.Template)

	res := ConfigResult{Path: workingPath}

	if _, err := os.Stat(workingPath); err == nil {
		return res, nil
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return res, errors.Wrapf(ErrTemplateMissing, "%s", templatePath)
		}
		return res, errors.Wrap(err, "reading config template")
	}

	if err := os.WriteFile(workingPath, data, 0o644); err != nil {
		return res, errors.Wrap(err, "creating working config")
	}

	logger.Infof("created %s from template, customize it for your environment", r.cfg.Paths.Config)
	res.Created = true

	return res, nil
}
