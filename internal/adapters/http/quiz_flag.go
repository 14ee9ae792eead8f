package web

import (
	"context"
	"errors"
	"fmt"

	"clansite/internal/adapters/http/middleware"
	"clansite/internal/config"
	"clansite/internal/domain/setting"
)

// quizOpen reports the quiz flag as seen by the caller.
// In global scope every caller reads the persisted flag. In session scope the
// flag lives in the caller's own session, so visitors without one see it closed.
func (s *Server) quizOpen(ctx context.Context) (bool, error) {
	if s.cfg.QuizFlagScope == config.QuizScopeSession {
		sess, ok := middleware.GetSessionFromContext(ctx)
		return ok && sess.QuizOpen, nil
	}
	st, err := s.stores.SettingStore.Get(ctx, setting.KeyQuizOpen)
	if errors.Is(err, setting.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read quiz flag: %w", err)
	}
	return st.Bool(), nil
}

// setQuizOpen changes the quiz flag in the configured scope.
// PRE: ctx carries an authenticated session
func (s *Server) setQuizOpen(ctx context.Context, open bool) error {
	if s.cfg.QuizFlagScope == config.QuizScopeSession {
		sess, ok := middleware.GetSessionFromContext(ctx)
		if !ok {
			return errors.New("no session to hold the quiz flag")
		}
		sess.QuizOpen, sess.QuizOpenSet = open, true
		updated, err := s.sessions.Update(ctx, sess.Token, sess)
		if err != nil {
			return fmt.Errorf("update session quiz flag: %w", err)
		}
		if !updated {
			return errors.New("session expired while setting quiz flag")
		}
		return nil
	}
	if err := s.stores.SettingStore.Save(ctx, setting.NewBool(setting.KeyQuizOpen, open, s.now())); err != nil {
		return fmt.Errorf("save quiz flag: %w", err)
	}
	return nil
}
