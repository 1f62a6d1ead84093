package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/config"
)

// repoRoot returns the web application root by walking up from the current
// directory looking for package.json. Without one the current directory is
// used.
func repoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			log.Debugw("no package.json found, using working directory", "dir", cwd)
			return cwd, nil
		}
		dir = parent
	}
}

// loadConfig reads the configuration for a subcommand. An explicit --config
// file must exist; the default one is optional.
func loadConfig(cctx *cli.Context) (*config.Config, string, error) {
	root, err := repoRoot()
	if err != nil {
		return nil, "", xerrors.Errorf("finding repository root: %w", err)
	}

	path := cctx.String("config")
	required := path != ""
	if !required {
		path = filepath.Join(root, config.DefaultFile)
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}
