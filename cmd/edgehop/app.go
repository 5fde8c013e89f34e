package main

import (
	"go.uber.org/zap"

	"edgehop/internal/activate"
	"edgehop/internal/config"
	"edgehop/internal/osa"
	"edgehop/internal/profile"
	"edgehop/internal/session"
	"edgehop/internal/tabs"
	"edgehop/internal/workspace"
)

// app wires the per-run components. Each store memoizes its own load, so
// constructing the app is cheap; nothing touches the disk or the
// automation interface until a command asks.
type app struct {
	cfg *config.Config
	log *zap.Logger

	profiles   *profile.Store
	workspaces *workspace.Store
	session    *session.Client
	tabs       *tabs.Store

	helpers   *osa.HelperTools
	scripter  *osa.Scripter
	launcher  *osa.BrowserLauncher
	activator *activate.Activator
}

func newApp(cfg *config.Config, log *zap.Logger) *app {
	runner := osa.NewExecRunner(log)

	profiles := profile.NewStore(cfg.LocalStatePath(), log)
	workspaces := workspace.NewStore(profiles, cfg.WorkspacesCachePath, log)
	sess := session.NewClient(runner, cfg.GetQueryTimeout(), log)
	openTabs := tabs.NewStore(sess, workspaces, profiles, log)

	helpers := osa.NewHelperTools(cfg.HelperDir, cfg.GetProbeTimeout(), log)
	scripter := osa.NewScripter(runner, cfg.GetRaiseTimeout(), log)
	launcher := osa.NewBrowserLauncher(cfg, log)

	prober := session.NewClient(runner, cfg.GetProbeTimeout(), log)
	activator := activate.New(activate.Options{
		Lister:       helpers,
		Raiser:       helpers,
		Scripter:     scripter,
		Prober:       prober,
		Launcher:     launcher,
		PollAttempts: cfg.GetPollAttempts(),
		PollInterval: cfg.GetPollInterval(),
		Logger:       log,
	})

	return &app{
		cfg:        cfg,
		log:        log,
		profiles:   profiles,
		workspaces: workspaces,
		session:    sess,
		tabs:       openTabs,
		helpers:    helpers,
		scripter:   scripter,
		launcher:   launcher,
		activator:  activator,
	}
}
