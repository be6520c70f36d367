package cmd

import (
	"github.com/josephlewis42/dcsh/core/config"
	"github.com/josephlewis42/dcsh/core/editor"
	"github.com/josephlewis42/dcsh/core/logger"
	"github.com/josephlewis42/dcsh/core/shell"
	"github.com/josephlewis42/dcsh/core/store"
	"github.com/josephlewis42/dcsh/core/vars"
	"go.uber.org/zap"
)

// session holds everything a running shell needs, built from the
// configuration.
type session struct {
	cfg      *config.Configuration
	log      *zap.Logger
	closeLog func() error
	store    *store.Store
	history  *editor.History
	shell    *shell.Shell
}

func openSession(cfg *config.Configuration, stdio shell.Stdio) (*session, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}

	log, closeLog, err := logger.Open(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	sess := &session{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		history:  editor.NewHistory(cfg.History.MaxEntries),
	}
	sess.loadHistory()

	sess.shell = shell.New(cfg.ShellName, vars.New(), stdio, log)
	sess.shell.History = sess.history

	log.Info(logger.MsgStart, zap.String("config_dir", cfg.Dir()))
	return sess, nil
}

// loadHistory attaches the persistent store. Failures leave the history in
// memory only.
func (s *session) loadHistory() {
	path := s.cfg.HistoryPath()
	if path == "" {
		return
	}

	st, err := store.Open(path)
	if err != nil {
		s.log.Warn("open history", zap.String("path", path), zap.Error(err))
		return
	}

	cmds, err := st.Last(s.cfg.History.MaxEntries)
	if err != nil {
		s.log.Warn("read history", zap.String("path", path), zap.Error(err))
	}
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		lines = append(lines, c.Text)
	}

	s.store = st
	s.history = editor.NewHistory(s.cfg.History.MaxEntries, lines...)
	s.history.Recorder = st
	s.history.OnError = func(err error) {
		s.log.Warn("record history", zap.Error(err))
	}
}

func (s *session) Close() error {
	s.log.Info(logger.MsgStop, zap.Stringer("last_status", s.shell.LastStatus()))

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("close history", zap.Error(err))
		}
	}
	return s.closeLog()
}
